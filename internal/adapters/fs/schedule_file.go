package fs

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/bft-labs/chime/internal/domain"
	"github.com/bft-labs/chime/internal/schedule"
)

// ScheduleFile reads schedule rows from a file on an afero.Fs.
// The decoder is chosen by file extension.
type ScheduleFile struct {
	fs   afero.Fs
	path string
}

// NewScheduleFile creates a reader for path. A nil fs means the OS filesystem.
func NewScheduleFile(fs afero.Fs, path string) *ScheduleFile {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &ScheduleFile{fs: fs, path: path}
}

// ReadRows reads every row from the file.
// Returns domain.ErrScheduleNotFound if the file does not exist.
func (f *ScheduleFile) ReadRows() ([]schedule.Row, error) {
	data, err := afero.ReadFile(f.fs, f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrScheduleNotFound, f.path)
		}
		return nil, fmt.Errorf("read schedule %s: %w", f.path, err)
	}

	var rows []schedule.Row
	switch ext := strings.ToLower(filepath.Ext(f.path)); ext {
	case ".csv", "":
		rows, err = decodeCSV(data)
	case ".yaml", ".yml":
		rows, err = decodeYAML(data)
	case ".toml":
		rows, err = decodeTOML(data)
	default:
		return nil, fmt.Errorf("schedule %s: unsupported extension %q", f.path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parse schedule %s: %w", f.path, err)
	}
	return rows, nil
}

func decodeCSV(data []byte) ([]schedule.Row, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := cols["time"]; !ok {
		return nil, errors.New("csv header has no \"time\" column")
	}

	cell := func(rec []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}
	field := func(rec []string, name string) string {
		return strings.TrimSpace(cell(rec, name))
	}

	var rows []schedule.Row
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := r.FieldPos(0)
		rows = append(rows, schedule.Row{
			Line:     line,
			Time:     cell(rec, "time"),
			Name:     field(rec, "name"),
			Sound:    field(rec, "sound"),
			Playlist: field(rec, "playlist"),
		})
	}
	return rows, nil
}

func decodeYAML(data []byte) ([]schedule.Row, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if len(root.Content) == 0 {
		return nil, nil
	}

	doc := root.Content[0]
	list := doc
	if doc.Kind == yaml.MappingNode {
		list = nil
		for i := 0; i+1 < len(doc.Content); i += 2 {
			if doc.Content[i].Value == "reminders" {
				list = doc.Content[i+1]
				break
			}
		}
		if list == nil {
			return nil, errors.New("yaml schedule has no \"reminders\" key")
		}
	}
	if list.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("yaml schedule: line %d: expected a list of reminders", list.Line)
	}

	rows := make([]schedule.Row, 0, len(list.Content))
	for _, item := range list.Content {
		var row schedule.Row
		if err := item.Decode(&row); err != nil {
			return nil, err
		}
		row.Line = item.Line
		rows = append(rows, row)
	}
	return rows, nil
}

type tomlSchedule struct {
	Reminder []schedule.Row `toml:"reminder"`
}

func decodeTOML(data []byte) ([]schedule.Row, error) {
	var doc tomlSchedule
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	for i := range doc.Reminder {
		doc.Reminder[i].Line = i + 1
	}
	return doc.Reminder, nil
}
