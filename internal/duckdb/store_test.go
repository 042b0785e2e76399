package duckdb

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vcf2rdf/internal/stats"
)

func openInMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleReport() *stats.Report {
	return &stats.Report{
		Records:        3,
		Skipped:        1,
		SkippedAlleles: 1,
		Emitted:        3,
		Triples:        42,
		Contigs:        []stats.Count{{Name: "2", Count: 1}, {Name: "1", Count: 2}},
		Filters:        []stats.Count{{Name: ".", Count: 1}, {Name: "PASS", Count: 2}},
		Info:           []stats.Count{{Name: "AF", Count: 2}, {Name: "DP", Count: 3}},
		Kinds:          []stats.Count{{Name: "Deletion", Count: 1}, {Name: "SNV", Count: 2}},
		SkipReasons:    []stats.Count{{Name: stats.ReasonNoReference, Count: 1}},
	}
}

func TestOpenInMemory(t *testing.T) {
	s := openInMemory(t)
	assert.NotNil(t, s.DB())

	runs, err := s.Runs()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "stats.duckdb")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = os.Stat(path)
	assert.NoError(t, err)

	// Reopening keeps the schema.
	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
}

func TestWriteAndLookupReport(t *testing.T) {
	s := openInMemory(t)
	fp := FileFingerprint{Path: "sample.vcf.gz", Size: 1234, ModTime: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)}

	want := sampleReport()
	id, err := s.WriteReport(fp, want)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	got, err := s.LookupReport(id)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	runs, err := s.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, id, runs[0].ID)
	assert.True(t, fp.Same(runs[0].Input))
	assert.Equal(t, int64(3), runs[0].Records)
	assert.Equal(t, int64(42), runs[0].Triples)
}

func TestWriteReportAssignsIncreasingIDs(t *testing.T) {
	s := openInMemory(t)

	id1, err := s.WriteReport(FileFingerprint{Path: "-"}, &stats.Report{Records: 1})
	require.NoError(t, err)
	id2, err := s.WriteReport(FileFingerprint{Path: "-"}, &stats.Report{Records: 2})
	require.NoError(t, err)
	assert.Equal(t, id1+1, id2)

	runs, err := s.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.True(t, runs[0].Input.ModTime.IsZero())
	assert.Equal(t, int64(2), runs[1].Records)

	got, err := s.LookupReport(id1)
	require.NoError(t, err)
	assert.Empty(t, got.Contigs)
}

func TestLookupReportNotFound(t *testing.T) {
	s := openInMemory(t)
	_, err := s.LookupReport(7)
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestClearRuns(t *testing.T) {
	s := openInMemory(t)
	_, err := s.WriteReport(FileFingerprint{Path: "a.vcf"}, sampleReport())
	require.NoError(t, err)

	require.NoError(t, s.ClearRuns())
	runs, err := s.Runs()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestStatFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.vcf")
	require.NoError(t, os.WriteFile(path, []byte("##fileformat=VCFv4.2\n"), 0644))

	fp, err := StatFile(path)
	require.NoError(t, err)
	assert.Equal(t, int64(21), fp.Size)
	assert.False(t, fp.ModTime.IsZero())

	again, err := StatFile(path)
	require.NoError(t, err)
	assert.True(t, fp.Same(again))

	stdin, err := StatFile("-")
	require.NoError(t, err)
	assert.Equal(t, FileFingerprint{Path: "-"}, stdin)

	_, err = StatFile(filepath.Join(t.TempDir(), "missing.vcf"))
	assert.Error(t, err)
}
