package reveal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifyUnlock_Password(t *testing.T) {
	cfg := UnlockConfig{Type: UnlockPassword, Password: "1994"}

	cases := []struct {
		input string
		want  bool
	}{
		{"1994", true},
		{" 1994 ", true},
		{"1995", false},
		{"", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, VerifyUnlock(cfg, c.input), "input %q", c.input)
	}
}

func TestVerifyUnlock_PasswordCaseInsensitive(t *testing.T) {
	cfg := UnlockConfig{Type: UnlockPassword, Password: "Secret Word"}
	assert.True(t, VerifyUnlock(cfg, "  secret word "))
}

func TestVerifyUnlock_Question(t *testing.T) {
	cfg := UnlockConfig{
		Type:     UnlockQuestion,
		Question: "Where did we first meet?",
		Answer:   "Lisbon",
	}
	assert.True(t, VerifyUnlock(cfg, "LISBON"))
	assert.False(t, VerifyUnlock(cfg, "Porto"))
}

func TestVerifyUnlock_None(t *testing.T) {
	assert.True(t, VerifyUnlock(UnlockConfig{Type: UnlockNone}, "anything"))
}

func TestUnlockConfig_Locked(t *testing.T) {
	assert.False(t, UnlockConfig{Type: UnlockNone}.Locked())
	assert.True(t, UnlockConfig{Type: UnlockPassword, Password: "x"}.Locked())
	assert.True(t, UnlockConfig{Type: UnlockQuestion, Answer: "x"}.Locked())
}
