package pretty_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/rtftplint/internal/ui/pretty"
	"github.com/yaklabco/rtftplint/pkg/rtf"
	"github.com/yaklabco/rtftplint/pkg/runner"
	"github.com/yaklabco/rtftplint/pkg/structure"
)

func parse(t *testing.T, items ...string) (*structure.Tree, error) {
	t.Helper()

	var elems []rtf.Element
	for i, item := range items {
		pos := rtf.Pos{Line: i + 1}
		if name, ok := strings.CutPrefix(item, "FIELD "); ok {
			elems = append(elems, &rtf.Field{Name: name, Pos: pos})
			continue
		}
		elems = append(elems, &rtf.BookmarkStart{Name: item, Pos: pos}, &rtf.BookmarkEnd{Name: item, Pos: pos})
	}

	return structure.NewParser().ParseDocument(rtf.NewDocument(elems...))
}

func TestFormatOutcome(t *testing.T) {
	styles := pretty.NewStyles(false)

	tree, err := parse(t, "IF_a", "ENDIF_a")
	require.NoError(t, err)

	_, serr := parse(t, "IF_a", "WHILE_b", "ENDIF_a")
	require.Error(t, serr)

	tests := []struct {
		name    string
		outcome runner.FileOutcome
		want    string
	}{
		{
			name:    "valid",
			outcome: runner.FileOutcome{Path: "a.rtf", Tree: tree},
			want:    "✓ a.rtf: Structure valid!\n",
		},
		{
			name:    "invalid",
			outcome: runner.FileOutcome{Path: "b.rtf", Error: serr},
			want:    "✗ b.rtf:3: invalid structure: missing ENDWHILE for WHILE_b (found ENDIF_a) at line 3\n",
		},
		{
			name:    "unreadable",
			outcome: runner.FileOutcome{Path: "c.rtf", Error: rtf.ErrUnsupported},
			want:    "! c.rtf: unsupported template: input is not an RTF document\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, styles.FormatOutcome(tt.outcome))
		})
	}
}

func TestFormatOpenBlocks(t *testing.T) {
	styles := pretty.NewStyles(false)

	_, err := parse(t, "IF_a", "WHILE_b", "ENDIF_a")
	require.Error(t, err)

	out := styles.FormatOpenBlocks(runner.FileOutcome{Path: "b.rtf", Error: err})
	assert.Equal(t, "    open blocks: IF_a@1 WHILE_b@2\n", out)

	assert.Empty(t, styles.FormatOpenBlocks(runner.FileOutcome{Error: errors.New("io")}))
	assert.Empty(t, styles.FormatOpenBlocks(runner.FileOutcome{}))
}
