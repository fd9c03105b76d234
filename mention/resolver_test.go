package mention

import (
	"testing"

	"hive-chat/domain"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func ids(users []domain.User) []string {
	return lo.Map(users, func(u domain.User, _ int) string { return u.ID })
}

func TestTokens(t *testing.T) {
	req := require.New(t)

	req.Equal([]string{"ann", "bob_2"}, Tokens("hi @Ann and @bob_2, @ANN again"))
	req.Empty(Tokens("no mention here, mail me at x @ y"))
}

func TestResolve(t *testing.T) {
	candidates := []domain.User{
		{ID: "u1", FullName: "Ann"},
		{ID: "u2", FullName: "Anna"},
		{ID: "u3", FullName: "Bob Marley"},
		{ID: "u4", FullName: "Clara"},
		{ID: "u5", FullName: "   "},
	}

	tests := []struct {
		name     string
		text     string
		sender   string
		expected []string
	}{
		{
			name:     "Every name containing the token matches",
			text:     "hello @ann",
			sender:   "u4",
			expected: []string{"u1", "u2"},
		},
		{
			name:     "Sender is excluded",
			text:     "hello @ann",
			sender:   "u1",
			expected: []string{"u2"},
		},
		{
			name:     "Token containing a full name matches",
			text:     "ping @bobmarley_please",
			sender:   "u4",
			expected: []string{"u3"},
		},
		{
			name:     "Case and whitespace are ignored",
			text:     "@BobMarley",
			sender:   "u1",
			expected: []string{"u3"},
		},
		{
			name:     "No token, no mention",
			text:     "hello everyone",
			sender:   "u1",
			expected: []string{},
		},
		{
			name:     "Unknown token",
			text:     "hello @zoe",
			sender:   "u1",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			matched, err := Resolve(tt.text, tt.sender, candidates)
			req.NoError(err)
			req.ElementsMatch(tt.expected, ids(matched))
		})
	}
}
