package csvio

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	ds "github.com/wdm0006/tidykit/pkg/dataset"
)

func writeTemp(t testing.TB, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func numbered(n int) string {
	var b strings.Builder
	b.WriteString("id,label\n")
	for i := 0; i < n; i++ {
		b.WriteString(strconv.Itoa(i))
		b.WriteString(",row")
		b.WriteString(strconv.Itoa(i % 7))
		b.WriteByte('\n')
	}
	return b.String()
}

func TestStreamReadCSV(t *testing.T) {
	p := writeTemp(t, "in.csv", numbered(25))
	sr, rc, err := NewStreamReader(p, ReaderOptions{HasHeader: true, SampleRows: 5}, 10)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = rc.Close() }()
	var sizes []int
	for {
		fr, err := sr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		sizes = append(sizes, fr.Rows())
	}
	if len(sizes) != 3 || sizes[0] != 10 || sizes[2] != 5 {
		t.Fatalf("chunk sizes %v", sizes)
	}
}

func TestRunStreamCopies(t *testing.T) {
	p := writeTemp(t, "in.csv", numbered(12))
	sr, rc, err := NewStreamReader(p, ReaderOptions{HasHeader: true}, 5)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = rc.Close() }()
	out := filepath.Join(t.TempDir(), "out.csv")
	sw, err := NewStreamWriter(out, WriterOptions{})
	if err != nil {
		t.Fatal(err)
	}
	n, err := ds.RunStream(context.Background(), ds.NewPipeline(), sr, sw)
	if err != nil {
		t.Fatal(err)
	}
	if n != 12 {
		t.Fatalf("rows = %d", n)
	}
	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != numbered(12) {
		t.Fatalf("copy differs:\n%s", got)
	}
}
