package dataio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	ds "github.com/wdm0006/tidykit/pkg/dataset"
)

func TestDetect(t *testing.T) {
	cases := map[string]Format{
		"a.csv":        FormatCSV,
		"a.CSV.gz":     FormatCSV,
		"a.tsv":        FormatCSV,
		"a.jsonl.gz":   FormatJSONL,
		"a.parquet":    FormatParquet,
		"report.xlsx":  FormatXLSX,
		"-":            FormatCSV,
		"no_extension": FormatCSV,
	}
	for in, want := range cases {
		got, err := Detect(in)
		if err != nil || got != want {
			t.Fatalf("%s: got %q, %v", in, got, err)
		}
	}
	if _, err := Detect("a.docx"); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestSaveLoadEveryFormat(t *testing.T) {
	convey.Convey("Given a small frame", t, func() {
		src := filepath.Join(t.TempDir(), "in.csv")
		err := os.WriteFile(src, []byte("id,city,score\n1,Oslo,2.5\n2,,3.5\n3,Rome,\n"), 0o644)
		convey.So(err, convey.ShouldBeNil)
		in, err := Load(src, Options{})
		convey.So(err, convey.ShouldBeNil)
		convey.So(in.Rows(), convey.ShouldEqual, 3)

		for _, name := range []string{"out.csv.gz", "out.tsv", "out.jsonl", "out.parquet", "out.xlsx"} {
			name := name
			convey.Convey("It round-trips through "+name, func() {
				p := filepath.Join(t.TempDir(), name)
				convey.So(Save(p, in, Options{}), convey.ShouldBeNil)
				out, err := Load(p, Options{})
				convey.So(err, convey.ShouldBeNil)
				convey.So(out.Names(), convey.ShouldResemble, in.Names())
				convey.So(out.Rows(), convey.ShouldEqual, 3)
				convey.So(out.Schema().Columns[0].Type, convey.ShouldEqual, ds.KindInt)
				v, _ := out.Value(1, "city")
				convey.So(v, convey.ShouldBeNil)
				v, _ = out.Value(0, "score")
				convey.So(v, convey.ShouldEqual, 2.5)
			})
		}
	})
}
