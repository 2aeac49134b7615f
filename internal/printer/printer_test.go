package printer

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCtx(t *testing.T) {
	var out, errOut bytes.Buffer
	p := New(&out, &errOut)

	ctx := NewContext(context.Background(), p)
	assert.Same(t, p, Ctx(ctx))

	assert.NotNil(t, Ctx(context.Background()))
}

func TestPrinter_Streams(t *testing.T) {
	var out, errOut bytes.Buffer
	p := New(&out, &errOut)

	p.Printf("plain %d", 1)
	p.Successf("Changes saved successfully")
	p.Infof("info")
	p.Warnf("careful")
	p.Errorf("Changes discarded")

	assert.Contains(t, out.String(), "plain 1\n")
	assert.Contains(t, out.String(), "✓ Changes saved successfully")
	assert.Contains(t, out.String(), "info")
	assert.NotContains(t, out.String(), "careful")

	assert.Contains(t, errOut.String(), "! careful")
	assert.Contains(t, errOut.String(), "✗ Changes discarded")
}

func TestPrinter_Frame(t *testing.T) {
	var out bytes.Buffer
	p := New(&out, &out)

	p.FrameOpen("MergeFlow resolving conflicts")
	p.FrameField("File", "src/a.go")
	p.FrameClose("Resolution complete")

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "╭─")
	assert.Contains(t, lines[0], "MergeFlow resolving conflicts")
	assert.Contains(t, lines[1], "File:")
	assert.Contains(t, lines[1], "src/a.go")
	assert.Contains(t, lines[2], "✓ Resolution complete")
}

func TestPrinter_Success(t *testing.T) {
	var out bytes.Buffer
	p := New(&out, &out)

	p.Success("Commit successful", "MergeFlow <>")
	assert.Contains(t, out.String(), "Commit successful")
	assert.Contains(t, out.String(), "MergeFlow <>")
}
