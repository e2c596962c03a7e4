package model

type TrackSummary struct {
	Name        string   `json:"name"`
	StringCount int32    `json:"string_count"`
	Tuning      []string `json:"tuning"`
	Drums       bool     `json:"drums,omitempty"`
	NoteCount   int      `json:"note_count"`
	Chords      []string `json:"chords,omitempty"`
}

type SongSummary struct {
	Path         string         `json:"path,omitempty"`
	Title        string         `json:"title"`
	Artist       string         `json:"artist"`
	Album        string         `json:"album"`
	Tempo        int32          `json:"tempo"`
	MeasureCount int32          `json:"measure_count"`
	TrackCount   int32          `json:"track_count"`
	Tracks       []TrackSummary `json:"tracks"`
}

// Summarize describes s. name turns a tuning value into a display name.
func Summarize(s *Song, name func(int32) string) SongSummary {
	sum := SongSummary{
		Title:        s.Metadata.Title,
		Artist:       s.Metadata.Artist,
		Album:        s.Metadata.Album,
		Tempo:        s.Tempo,
		MeasureCount: s.MeasureCount,
		TrackCount:   s.TrackCount,
	}
	for i, h := range s.TrackHeaders {
		ts := TrackSummary{
			Name:        h.Name,
			StringCount: h.StringCount,
			Drums:       h.Drums(),
		}
		for _, tuning := range h.Strings() {
			ts.Tuning = append(ts.Tuning, name(tuning))
		}
		for _, m := range s.Track(i) {
			for _, b := range m.Beats {
				ts.NoteCount += b.Notes.Count()
			}
		}
		sum.Tracks = append(sum.Tracks, ts)
	}
	return sum
}
