package command

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/battlemap/pkg/coord"
	"github.com/jwebster45206/battlemap/pkg/dice"
)

func ptr[T any](v T) *T { return &v }

func TestParse_Verbs(t *testing.T) {
	tests := []struct {
		line     string
		expected Command
	}{
		{"q", Quit{}},
		{"quit", Quit{}},
		{"exit", Quit{}},
		{"  exit now please", Quit{}},
		{"h", Help{}},
		{"help", Help{}},
		{"?", Help{}},
		{"", Unrecognized{}},
		{"   \t ", Unrecognized{}},
		{"dance", Unrecognized{Line: "dance"}},
		{"Quit", Unrecognized{Line: "Quit"}},
		{"TOKEN goblin", Unrecognized{Line: "TOKEN goblin"}},
		{"roll 3d6", Unrecognized{Line: "roll 3d6"}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			cmd, err := Parse(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cmd)
		})
	}
}

func TestParse_Roll(t *testing.T) {
	tests := []struct {
		line string
		expr string
	}{
		{"r 3d6 + 5", "3d6 + 5"},
		{"r 2d20 K1", "2d20 K1"},
		{"r 2d20 k1", "2d20 k1"},
		{"r  d20", " d20"},
		{"  r 1d4", "1d4"},
		{"r\t4d6kh3", "4d6kh3"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			cmd, err := Parse(tt.line)
			require.NoError(t, err)
			roll, ok := cmd.(Roll)
			require.True(t, ok, "expected Roll, got %T", cmd)
			assert.Equal(t, tt.expr, roll.Expression)
			assert.Equal(t, CmdRoll, cmd.Type())
		})
	}
}

func TestParse_InvalidRoll(t *testing.T) {
	for _, line := range []string{"r", "r ", "r 3d", "r fireball", "r 2d20 K", "r 9223372036854775807 + 1"} {
		t.Run(line, func(t *testing.T) {
			cmd, err := Parse(line)
			assert.Nil(t, cmd)
			require.ErrorIs(t, err, ErrInvalidRoll)
			assert.ErrorIs(t, err, dice.ErrSyntax)

			var ufe *UserFacingError
			require.True(t, errors.As(err, &ufe))
			assert.Equal(t, line, ufe.Line)
		})
	}
}

func TestParse_Battlemap(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected BattlemapPatch
	}{
		{
			name:     "all flags",
			line:     "battlemap --url=bg.jpg --columns=10 --rows=8",
			expected: BattlemapPatch{Image: ptr("bg.jpg"), Columns: ptr(10), Rows: ptr(8)},
		},
		{
			name:     "relative asset path",
			line:     "battlemap --url=./assets/background.jpg --columns=100 --rows=100",
			expected: BattlemapPatch{Image: ptr("./assets/background.jpg"), Columns: ptr(100), Rows: ptr(100)},
		},
		{
			name:     "only rows",
			line:     "battlemap --rows=3",
			expected: BattlemapPatch{Rows: ptr(3)},
		},
		{
			name:     "flags in any order",
			line:     "battlemap --columns=702 --url=x.png",
			expected: BattlemapPatch{Image: ptr("x.png"), Columns: ptr(702)},
		},
		{
			name:     "no flags",
			line:     "battlemap",
			expected: BattlemapPatch{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := Parse(tt.line)
			require.NoError(t, err)
			assert.Equal(t, UpdateBattlemap{Patch: tt.expected}, cmd)
		})
	}
}

func TestParse_InvalidBattlemap(t *testing.T) {
	lines := []string{
		"battlemap --zoom=2",
		"battlemap --columns=ten",
		"battlemap --columns=0",
		"battlemap --columns=703",
		"battlemap --rows=-1",
		"battlemap --rows=",
		"battlemap --url=",
		"battlemap --url",
		"battlemap bg.jpg",
		"battlemap -h",
	}
	for _, line := range lines {
		t.Run(line, func(t *testing.T) {
			_, err := Parse(line)
			assert.ErrorIs(t, err, ErrInvalidBattlemap)
			assert.NotErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestParse_Token(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected UpdateToken
	}{
		{
			name:     "id only",
			line:     "token goblin1",
			expected: UpdateToken{ID: "goblin1"},
		},
		{
			name:     "name",
			line:     "token goblin1 --name=Goblin",
			expected: UpdateToken{ID: "goblin1", Patch: TokenPatch{Name: ptr("Goblin")}},
		},
		{
			name: "every flag",
			line: "token orc --image=./assets/orc.png --name=Grok --size=large --max-health=30 --pos=C4 --initiative=-2",
			expected: UpdateToken{ID: "orc", Patch: TokenPatch{
				Image:      ptr("./assets/orc.png"),
				Name:       ptr("Grok"),
				Size:       ptr("large"),
				MaxHealth:  ptr(30),
				Position:   ptr(coord.Chess("C4")),
				Initiative: ptr(-2),
			}},
		},
		{
			name:     "lower case position",
			line:     "token orc --pos=ab12",
			expected: UpdateToken{ID: "orc", Patch: TokenPatch{Position: ptr(coord.Chess("AB12"))}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := Parse(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cmd)
		})
	}
}

func TestParse_InvalidToken(t *testing.T) {
	lines := []string{
		"token",
		"token --name=Goblin",
		"token goblin1 extra",
		"token goblin1 --hp=3",
		"token goblin1 --max-health=lots",
		"token goblin1 --max-health=0",
		"token goblin1 --initiative=1.5",
		"token goblin1 --pos=11",
		"token goblin1 --pos=A-1",
		"token goblin1 --pos=A0",
		"token goblin1 --name=",
		"token goblin1 --image=",
	}
	for _, line := range lines {
		t.Run(line, func(t *testing.T) {
			_, err := Parse(line)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestParse_InvalidTokenPositionKeepsCoordError(t *testing.T) {
	_, err := Parse("token goblin1 --pos=A0")
	assert.ErrorIs(t, err, coord.ErrBadNumber)
}

func TestParseScript(t *testing.T) {
	script := "battlemap --rows=4\r\n" +
		"token a --name=A\n" +
		"\n" +
		"token --bad\n" +
		"r 1d6\n" +
		"q"

	lines := ParseScript(script)
	require.Len(t, lines, 6)

	assert.Equal(t, CmdUpdateBattlemap, lines[0].Command.Type())
	assert.Equal(t, "battlemap --rows=4", lines[0].Line)
	assert.Equal(t, CmdUpdateToken, lines[1].Command.Type())
	assert.Equal(t, Unrecognized{}, lines[2].Command)
	assert.ErrorIs(t, lines[3].Err, ErrInvalidToken)
	assert.Equal(t, 4, lines[3].Number)
	assert.Equal(t, Roll{Expression: "1d6"}, lines[4].Command)
	assert.Equal(t, Quit{}, lines[5].Command)
}

func TestPatch_IsEmpty(t *testing.T) {
	assert.True(t, BattlemapPatch{}.IsEmpty())
	assert.False(t, BattlemapPatch{Rows: ptr(1)}.IsEmpty())
	assert.True(t, TokenPatch{}.IsEmpty())
	assert.False(t, TokenPatch{Initiative: ptr(0)}.IsEmpty())
}
