package room

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/geoguess/internal/game/words"
)

func testRoom(t *testing.T) *Room {
	t.Helper()
	return newRoom("ABC123", words.ModeCountries, "SPAIN", "Famous for flamenco and paella", 6, 100)
}

func TestJoinReturnsSnapshot(t *testing.T) {
	r := testRoom(t)

	state, err := r.Join("player-1", "bottts", map[string]string{"background": "blue"})
	require.NoError(t, err)

	assert.Equal(t, "ABC123", state.Code)
	assert.Equal(t, 5, state.WordLength)
	assert.Equal(t, 6, state.MaxGuesses)
	assert.Equal(t, "Famous for flamenco and paella", state.Clue)
	assert.Equal(t, "player-1", state.You)
	require.Len(t, state.Roster, 1)
	assert.Equal(t, "player-1", state.Roster[0].ID)
	assert.Equal(t, "bottts", state.Roster[0].Avatar.Style)
	assert.NotEmpty(t, state.Roster[0].Avatar.Seed)
	assert.Empty(t, state.Chat)
}

func TestJoinRejectsDuplicate(t *testing.T) {
	r := testRoom(t)

	_, err := r.Join("player-1", "", nil)
	require.NoError(t, err)

	_, err = r.Join("player-1", "", nil)
	assert.ErrorIs(t, err, ErrDuplicateParticipant)
	assert.Equal(t, 1, r.ParticipantCount())
}

func TestJoinSnapshotIncludesChatHistory(t *testing.T) {
	r := testRoom(t)

	_, err := r.Join("player-1", "", nil)
	require.NoError(t, err)
	_, err = r.PostChat("player-1", "anyone here?")
	require.NoError(t, err)

	state, err := r.Join("player-2", "", nil)
	require.NoError(t, err)
	require.Len(t, state.Chat, 1)
	assert.Equal(t, "player-1", state.Chat[0].Sender)
	assert.Equal(t, "anyone here?", state.Chat[0].Text)
	assert.Len(t, state.Roster, 2)
}

func TestLeaveReportsRemaining(t *testing.T) {
	r := testRoom(t)

	_, err := r.Join("player-1", "", nil)
	require.NoError(t, err)
	_, err = r.Join("player-2", "", nil)
	require.NoError(t, err)

	remaining, err := r.Leave("player-1")
	require.NoError(t, err)
	assert.Equal(t, 1, remaining)

	roster := r.Roster()
	require.Len(t, roster, 1)
	assert.Equal(t, "player-2", roster[0].ID)

	_, err = r.Leave("player-1")
	assert.ErrorIs(t, err, ErrUnknownParticipant)
}

func TestRequestHintNeverRepeatsAnIndex(t *testing.T) {
	r := testRoom(t)

	seen := make(map[int]bool)
	for i := 0; i < len("SPAIN"); i++ {
		reveal, err := r.RequestHint()
		require.NoError(t, err)
		assert.False(t, seen[reveal.Index], "index %d revealed twice", reveal.Index)
		seen[reveal.Index] = true
		assert.Equal(t, string("SPAIN"[reveal.Index]), reveal.Letter)
		assert.Equal(t, "Famous for flamenco and paella", reveal.Clue)
	}

	_, err := r.RequestHint()
	assert.ErrorIs(t, err, ErrNoHintsLeft)
	assert.Equal(t, 5, r.RevealedCount())
}

func TestSubmitGuessValidation(t *testing.T) {
	r := testRoom(t)
	_, err := r.Join("player-1", "", nil)
	require.NoError(t, err)

	_, err = r.SubmitGuess("ghost", "SPAIN")
	assert.ErrorIs(t, err, ErrUnknownParticipant)

	_, err = r.SubmitGuess("player-1", "   ")
	assert.ErrorIs(t, err, ErrEmptyGuess)

	_, err = r.SubmitGuess("player-1", "PORTUGAL")
	assert.ErrorIs(t, err, ErrWrongLength)

	// Validation failures burn no attempts.
	assert.Equal(t, 0, r.GuessCount("player-1"))
}

func TestSubmitGuessNormalizesInput(t *testing.T) {
	r := testRoom(t)
	_, err := r.Join("player-1", "", nil)
	require.NoError(t, err)

	outcome, err := r.SubmitGuess("player-1", "  spain ")
	require.NoError(t, err)
	assert.Equal(t, "SPAIN", outcome.Guess)
	assert.True(t, outcome.GameOver)
	assert.Equal(t, "player-1", outcome.Winner)
	assert.Equal(t, StateFinished, r.State())
}

func TestWinningGuessFinishesRoomForEveryone(t *testing.T) {
	r := testRoom(t)
	_, err := r.Join("player-1", "", nil)
	require.NoError(t, err)
	_, err = r.Join("player-2", "", nil)
	require.NoError(t, err)

	outcome, err := r.SubmitGuess("player-2", "SPAIN")
	require.NoError(t, err)
	assert.True(t, outcome.GameOver)
	assert.Equal(t, "player-2", outcome.Winner)

	_, err = r.SubmitGuess("player-1", "ITALY")
	assert.ErrorIs(t, err, ErrRoomFinished)
	_, err = r.RequestHint()
	assert.ErrorIs(t, err, ErrRoomFinished)
	_, err = r.PostChat("player-1", "gg")
	assert.ErrorIs(t, err, ErrRoomFinished)
	_, err = r.Join("player-3", "", nil)
	assert.ErrorIs(t, err, ErrRoomFinished)
}

func TestExhaustedBudgetFinishesWithNoWinner(t *testing.T) {
	r := newRoom("ABC123", words.ModeCountries, "SPAIN", "clue", 3, 100)
	_, err := r.Join("player-1", "", nil)
	require.NoError(t, err)
	_, err = r.Join("player-2", "", nil)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		outcome, err := r.SubmitGuess("player-1", "ITALY")
		require.NoError(t, err)
		assert.False(t, outcome.GameOver)
	}

	// The budget is per participant, so player-2 is unaffected so far.
	outcome, err := r.SubmitGuess("player-2", "CHILE")
	require.NoError(t, err)
	assert.False(t, outcome.GameOver)

	outcome, err = r.SubmitGuess("player-1", "JAPAN")
	require.NoError(t, err)
	assert.True(t, outcome.GameOver)
	assert.Empty(t, outcome.Winner)
	assert.Equal(t, StateFinished, r.State())
}

func TestWinOnFinalAttempt(t *testing.T) {
	r := newRoom("ABC123", words.ModeCountries, "SPAIN", "clue", 2, 100)
	_, err := r.Join("player-1", "", nil)
	require.NoError(t, err)

	_, err = r.SubmitGuess("player-1", "ITALY")
	require.NoError(t, err)

	outcome, err := r.SubmitGuess("player-1", "SPAIN")
	require.NoError(t, err)
	assert.True(t, outcome.GameOver)
	assert.Equal(t, "player-1", outcome.Winner)
}

func TestGuessFeedbackCoversEveryPosition(t *testing.T) {
	r := testRoom(t)
	_, err := r.Join("player-1", "", nil)
	require.NoError(t, err)

	outcome, err := r.SubmitGuess("player-1", "ITALY")
	require.NoError(t, err)
	require.Len(t, outcome.Feedback, 5)
	assert.Equal(t, MarkPresent, outcome.Feedback[0].Mark)
	assert.Equal(t, MarkCorrect, outcome.Feedback[2].Mark)
	assert.Equal(t, 1, r.GuessCount("player-1"))
}

func TestRoomChatRejectsUnknownSender(t *testing.T) {
	r := testRoom(t)
	_, err := r.PostChat("ghost", "hello")
	assert.ErrorIs(t, err, ErrUnknownParticipant)
}

func TestSubmitGuessRejectsNonLetters(t *testing.T) {
	r := testRoom(t)
	_, err := r.Join("player-1", "", nil)
	require.NoError(t, err)

	_, err = r.SubmitGuess("player-1", "ESPAÑ")
	assert.ErrorIs(t, err, ErrInvalidCharacters)

	_, err = r.SubmitGuess("player-1", "SPA1N")
	assert.ErrorIs(t, err, ErrInvalidCharacters)

	assert.Equal(t, 0, r.GuessCount("player-1"))
}

func TestRoomChatStoresTruncatedSender(t *testing.T) {
	r := testRoom(t)
	longID := "0af59ccd-9177-4b30-b7a6-1234567890ab"
	_, err := r.Join(longID, "", nil)
	require.NoError(t, err)

	msg, err := r.PostChat(longID, "hello")
	require.NoError(t, err)
	assert.Equal(t, "0af59ccd", msg.Sender)

	// Late joiners replay the stored log, so it must hold the same sender
	// form the live broadcast carried.
	state, err := r.Join("player-2", "", nil)
	require.NoError(t, err)
	require.Len(t, state.Chat, 1)
	assert.Equal(t, "0af59ccd", state.Chat[0].Sender)
}
