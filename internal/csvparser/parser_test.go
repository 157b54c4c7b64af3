package csvparser

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/library-loan-reports/internal/types"
)

// writeFile creates a file with the given content in a temp dir and returns
// its path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// readAll drains a parser into a slice.
func readAll(t *testing.T, p *Parser) []types.LoanRecord {
	t.Helper()
	var records []types.LoanRecord
	for p.Next() {
		records = append(records, p.Record())
	}
	return records
}

func TestOpen(t *testing.T) {
	path := writeFile(t, "loans.csv", "patron_id,date_due,date_returned\n"+
		"P1,01/01/2020,01/05/2020\n"+
		"P2,02/01/2020,01/30/2020\n")

	p, err := Open(path, Settings{})
	require.NoError(t, err)
	defer p.Close()

	records := readAll(t, p)
	require.NoError(t, p.Err())
	assert.Equal(t, []types.LoanRecord{
		{PatronID: "P1", DateDue: "01/01/2020", DateReturned: "01/05/2020", Row: 2},
		{PatronID: "P2", DateDue: "02/01/2020", DateReturned: "01/30/2020", Row: 3},
	}, records)
}

func TestOpenColumnOrderAndExtraColumns(t *testing.T) {
	content := "book_id,date_returned,patron_id,notes,date_due\n" +
		"B7,03/10/2021,P9,\"late, damaged\",03/01/2021\n"

	p, err := NewReader("inline", strings.NewReader(content), Settings{})
	require.NoError(t, err)

	records := readAll(t, p)
	require.NoError(t, p.Err())
	require.Len(t, records, 1)
	assert.Equal(t, "P9", records[0].PatronID)
	assert.Equal(t, "03/01/2021", records[0].DateDue)
	assert.Equal(t, "03/10/2021", records[0].DateReturned)
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.csv"), Settings{})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrIOFailure)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestOpenMissingColumns(t *testing.T) {
	tests := []struct {
		name    string
		content string
		missing string
	}{
		{
			name:    "one column missing",
			content: "patron_id,date_due\nP1,01/01/2020\n",
			missing: "date_returned",
		},
		{
			name:    "two columns missing",
			content: "patron,date_due\nP1,01/01/2020\n",
			missing: "patron_id,date_returned",
		},
		{
			name:    "header only, still validated",
			content: "id,due,returned\n",
			missing: "patron_id,date_due,date_returned",
		},
		{
			name:    "empty file",
			content: "",
			missing: "patron_id,date_due,date_returned",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReader("inline", strings.NewReader(tt.content), Settings{})
			require.Error(t, err)
			assert.ErrorIs(t, err, types.ErrMissingColumn)

			var e *types.Error
			require.True(t, errors.As(err, &e))
			assert.Equal(t, tt.missing, e.Column)
		})
	}
}

func TestParserBOMBlankLinesAndEmptyCells(t *testing.T) {
	content := "\xEF\xBB\xBFpatron_id,date_due,date_returned\n" +
		"\n" +
		"P1,01/01/2020,01/02/2020\n" +
		",,\n" +
		"P2,01/01/2020,01/03/2020\n"

	p, err := NewReader("inline", strings.NewReader(content), Settings{})
	require.NoError(t, err)

	records := readAll(t, p)
	require.NoError(t, p.Err())
	require.Len(t, records, 3)
	assert.Equal(t, 3, records[0].Row)
	assert.Equal(t, types.LoanRecord{Row: 4}, records[1])
	assert.Equal(t, 5, records[2].Row)
}

func TestParserShortRow(t *testing.T) {
	content := "patron_id,date_due,date_returned\nP1,01/01/2020\n"

	p, err := NewReader("inline", strings.NewReader(content), Settings{})
	require.NoError(t, err)

	records := readAll(t, p)
	require.NoError(t, p.Err())
	require.Len(t, records, 1)
	assert.Equal(t, "", records[0].DateReturned)
}

func TestParserSettings(t *testing.T) {
	content := "patron_id;date_due;date_returned\n P1 ; 01/01/2020 ;01/02/2020\n"

	t.Run("delimiter and trim", func(t *testing.T) {
		p, err := NewReader("inline", strings.NewReader(content), Settings{Delimiter: ';', TrimSpace: true})
		require.NoError(t, err)
		records := readAll(t, p)
		require.Len(t, records, 1)
		assert.Equal(t, "P1", records[0].PatronID)
		assert.Equal(t, "01/01/2020", records[0].DateDue)
	})

	t.Run("verbatim by default", func(t *testing.T) {
		p, err := NewReader("inline", strings.NewReader(content), Settings{Delimiter: ';'})
		require.NoError(t, err)
		records := readAll(t, p)
		require.Len(t, records, 1)
		assert.Equal(t, " P1 ", records[0].PatronID)
	})
}

// failingReader returns its data, then a read error instead of io.EOF.
type failingReader struct {
	data string
	done bool
}

func (r *failingReader) Read(b []byte) (int, error) {
	if r.done {
		return 0, errors.New("disk on fire")
	}
	r.done = true
	return copy(b, r.data), nil
}

func TestParserReadError(t *testing.T) {
	content := "patron_id,date_due,date_returned\nP1,01/01/2020,01/02/2020\n"

	p, err := NewReader("inline", &failingReader{data: content}, Settings{})
	require.NoError(t, err)

	require.True(t, p.Next())
	assert.False(t, p.Next())
	assert.ErrorIs(t, p.Err(), types.ErrIOFailure)
	assert.False(t, p.Next(), "parser stays stopped after an error")
}

func TestParserLazyQuotes(t *testing.T) {
	content := "patron_id,date_due,date_returned\nP\"1,01/01/2020,01/02/2020\n"

	p, err := NewReader("inline", strings.NewReader(content), Settings{})
	require.NoError(t, err)

	records := readAll(t, p)
	require.NoError(t, p.Err())
	require.Len(t, records, 1)
	assert.Equal(t, "P\"1", records[0].PatronID)
}

func TestParserClose(t *testing.T) {
	path := writeFile(t, "loans.csv", "patron_id,date_due,date_returned\n")
	p, err := Open(path, Settings{})
	require.NoError(t, err)

	assert.False(t, p.Next())
	assert.NoError(t, p.Close())
	assert.NoError(t, p.Close())
}

func TestParseDelimiter(t *testing.T) {
	tests := []struct {
		in      string
		want    rune
		wantErr bool
	}{
		{in: "", want: ','},
		{in: ",", want: ','},
		{in: "tab", want: '\t'},
		{in: "\\t", want: '\t'},
		{in: "PIPE", want: '|'},
		{in: "semicolon", want: ';'},
		{in: "#", want: '#'},
		{in: "::", wantErr: true},
		{in: "\"", wantErr: true},
		{in: "\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDelimiter(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
