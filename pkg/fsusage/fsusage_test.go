package fsusage_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/turbokube/storemeta/pkg/fsusage"
)

func TestUsage(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "/build/layers/base.tar", make([]byte, 100), 0644)
	afero.WriteFile(fs, "/build/layers/app.tar", make([]byte, 50), 0644)
	afero.WriteFile(fs, "/build/scratch/tmp.bin", make([]byte, 7), 0644)
	afero.WriteFile(fs, "/build/report.json", make([]byte, 10), 0644)

	t.Run("aggregates", func(t *testing.T) {
		s, err := fsusage.NewSampler(fs, "/build", nil)
		if err != nil {
			t.Fatal(err)
		}
		u, err := s.Usage()
		if err != nil {
			t.Fatal(err)
		}
		if u.Files != 4 {
			t.Errorf("files %d", u.Files)
		}
		if u.Dirs != 2 {
			t.Errorf("dirs %d", u.Dirs)
		}
		if u.Bytes != 167 {
			t.Errorf("bytes %d", u.Bytes)
		}
		if u.Tree["layers"] != 150 {
			t.Errorf("tree %v", u.Tree)
		}
	})

	t.Run("ignore patterns", func(t *testing.T) {
		s, err := fsusage.NewSampler(fs, "/build", []string{"scratch"})
		if err != nil {
			t.Fatal(err)
		}
		u, err := s.Usage()
		if err != nil {
			t.Fatal(err)
		}
		if u.Files != 3 || u.Bytes != 160 {
			t.Errorf("files %d bytes %d", u.Files, u.Bytes)
		}
	})

	t.Run("missing root errors", func(t *testing.T) {
		s, err := fsusage.NewSampler(fs, "/nope", nil)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := s.Usage(); err == nil {
			t.Errorf("walk of missing root should error")
		}
	})
}
