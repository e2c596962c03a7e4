package chord

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jsphweid/tabdex/model"
)

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// StringName names an open string tuning, where 60 is C4.
func StringName(tuning int32) string {
	if tuning < 0 {
		return fmt.Sprintf("?%d", tuning)
	}
	return fmt.Sprintf("%s%d", noteNames[tuning%12], tuning/12-1)
}

// TuningNames names every used string of the track, thinnest first.
func TuningNames(t model.TrackHeader) []string {
	var names []string
	for _, tuning := range t.Strings() {
		names = append(names, StringName(tuning))
	}
	return names
}

// NotePitch is tuning + capo + fret for the note on the given string.
// Notes without a fret, dead notes and pitches outside 0..127 have none.
func NotePitch(t model.TrackHeader, stringIndex int, n *model.Note) (uint8, bool) {
	if n == nil || n.Fret == nil || n.Is(model.NoteTypeDead) {
		return 0, false
	}
	strs := t.Strings()
	if stringIndex < 0 || stringIndex >= len(strs) {
		return 0, false
	}
	p := strs[stringIndex] + t.Capo + int32(*n.Fret)
	if p < 0 || p > 127 {
		return 0, false
	}
	return uint8(p), true
}

// BeatPitches lists the sounding pitches of a beat, lowest first. Rests
// sound nothing.
func BeatPitches(t model.TrackHeader, b model.Beat) model.Pitches {
	if b.IsRest {
		return nil
	}
	var pitches model.Pitches
	for i, n := range b.Notes.Strings {
		if p, ok := NotePitch(t, i, n); ok {
			pitches = append(pitches, p)
		}
	}
	sort.Slice(pitches, func(i, j int) bool {
		return pitches[i] < pitches[j]
	})
	return pitches
}

// DiagramPitches is what the chord diagram would sound on the track.
func DiagramPitches(t model.TrackHeader, c model.Chord) model.Pitches {
	var pitches model.Pitches
	strs := t.Strings()
	for i := range strs {
		fret, ok := c.Played(i)
		if !ok {
			continue
		}
		p := strs[i] + t.Capo + fret
		if p >= 0 && p <= 127 {
			pitches = append(pitches, uint8(p))
		}
	}
	sort.Slice(pitches, func(i, j int) bool {
		return pitches[i] < pitches[j]
	})
	return pitches
}

// CreateChordKey joins the sorted notes with dashes, e.g. "40-45-50".
// notes is sorted in place.
func CreateChordKey(notes model.Pitches) string {
	sort.Slice(notes, func(i, j int) bool {
		return notes[i] < notes[j]
	})
	parts := make([]string, len(notes))
	for i, note := range notes {
		parts[i] = fmt.Sprintf("%v", note)
	}
	return strings.Join(parts, "-")
}

// Track collects the chord key of every beat with two or more pitches, in
// order of appearance.
func Track(s *model.Song, trackIndex int) []string {
	if trackIndex < 0 || trackIndex >= len(s.TrackHeaders) {
		return nil
	}
	header := s.TrackHeaders[trackIndex]
	var keys []string
	for _, m := range s.Track(trackIndex) {
		for _, b := range m.Beats {
			if p := BeatPitches(header, b); len(p) > 1 {
				keys = append(keys, CreateChordKey(p))
			}
		}
	}
	return keys
}

// Diagrams maps each chord diagram name on the track to the key of what it
// sounds. Diagrams without frets are skipped; a later diagram with the same
// name wins.
func Diagrams(s *model.Song, trackIndex int) map[string]string {
	if trackIndex < 0 || trackIndex >= len(s.TrackHeaders) {
		return nil
	}
	header := s.TrackHeaders[trackIndex]
	res := make(map[string]string)
	for _, m := range s.Track(trackIndex) {
		for _, b := range m.Beats {
			if b.Chord == nil || b.Chord.Name == "" {
				continue
			}
			if p := DiagramPitches(header, *b.Chord); len(p) > 0 {
				res[b.Chord.Name] = CreateChordKey(p)
			}
		}
	}
	return res
}
