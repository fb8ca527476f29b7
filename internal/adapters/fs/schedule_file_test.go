package fs

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/chime/internal/domain"
	"github.com/bft-labs/chime/internal/schedule"
)

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
}

func TestReadRows_CSV(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/r/reminders.csv", "\xef\xbb\xbftime,name,sound\n"+
		"06:00,Morning,bell.mp3\n"+
		" 18:00:30 , Evening chant ,\n")

	rows, err := NewScheduleFile(fs, "/r/reminders.csv").ReadRows()
	require.NoError(t, err)

	assert.Equal(t, []schedule.Row{
		{Line: 2, Time: "06:00", Name: "Morning", Sound: "bell.mp3"},
		{Line: 3, Time: " 18:00:30 ", Name: "Evening chant"},
	}, rows)
}

func TestReadRows_CSVPlaylistColumn(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/reminders.csv", "time,name,sound,playlist\n05:00,Dawn,,pirith\n")

	rows, err := NewScheduleFile(fs, "/reminders.csv").ReadRows()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "pirith", rows[0].Playlist)
}

func TestReadRows_CSVKeepsRawTimeCell(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/reminders.csv", "time,name\n07:00,First\n 07:00,Second\n")

	rows, err := NewScheduleFile(fs, "/reminders.csv").ReadRows()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "07:00", rows[0].Time)
	assert.Equal(t, " 07:00", rows[1].Time, "the time cell is the reminder ID and is not trimmed")

	sched, dropped, err := schedule.Load(rows, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, dropped)
	ids := []string{sched.Entries()[0].ID, sched.Entries()[1].ID}
	assert.Equal(t, []string{"07:00", " 07:00"}, ids)
}

func TestReadRows_CSVWithoutTimeColumn(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/reminders.csv", "when,name\n06:00,x\n")

	_, err := NewScheduleFile(fs, "/reminders.csv").ReadRows()
	assert.Error(t, err)
}

func TestReadRows_YAML(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "bare list",
			content: `- time: "06:00"
  name: Morning
  sound: bell.mp3
- time: "18:00"
  name: Evening
  playlist: pirith
`,
		},
		{
			name: "reminders key",
			content: `reminders:
  - time: "06:00"
    name: Morning
    sound: bell.mp3
  - time: "18:00"
    name: Evening
    playlist: pirith
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			writeFile(t, fs, "/reminders.yaml", tt.content)

			rows, err := NewScheduleFile(fs, "/reminders.yaml").ReadRows()
			require.NoError(t, err)
			require.Len(t, rows, 2)
			assert.Equal(t, "06:00", rows[0].Time)
			assert.Equal(t, "bell.mp3", rows[0].Sound)
			assert.Equal(t, "pirith", rows[1].Playlist)
			assert.NotZero(t, rows[1].Line)
		})
	}
}

func TestReadRows_TOML(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/reminders.toml", `
[[reminder]]
time = "06:00"
name = "Morning"
sound = "bell.mp3"

[[reminder]]
time = "18:00"
name = "Evening"
playlist = "pirith"
`)

	rows, err := NewScheduleFile(fs, "/reminders.toml").ReadRows()
	require.NoError(t, err)
	assert.Equal(t, []schedule.Row{
		{Line: 1, Time: "06:00", Name: "Morning", Sound: "bell.mp3"},
		{Line: 2, Time: "18:00", Name: "Evening", Playlist: "pirith"},
	}, rows)
}

func TestReadRows_Missing(t *testing.T) {
	_, err := NewScheduleFile(afero.NewMemMapFs(), "/nope.csv").ReadRows()
	assert.True(t, errors.Is(err, domain.ErrScheduleNotFound), "got %v", err)
}

func TestReadRows_UnsupportedExtension(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/reminders.json", "[]")

	_, err := NewScheduleFile(fs, "/reminders.json").ReadRows()
	assert.Error(t, err)
}
