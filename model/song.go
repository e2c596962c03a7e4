package model

// Song is a fully decoded tab file. Measures is indexed
// [measureIndex][trackIndex].
type Song struct {
	Version        string             `json:"version"`
	Metadata       Metadata           `json:"metadata"`
	TripletFeel    bool               `json:"triplet_feel"`
	Tempo          int32              `json:"tempo"`
	Key            int32              `json:"key"`
	MidiChannels   [4][16]MidiChannel `json:"midi_channels"`
	MeasureCount   int32              `json:"measure_count"`
	TrackCount     int32              `json:"track_count"`
	MeasureHeaders []MeasureHeader    `json:"measure_headers"`
	TrackHeaders   []TrackHeader      `json:"track_headers"`
	Measures       [][]Measure        `json:"measures"`
}

type Metadata struct {
	Title        string   `json:"title"`
	Subtitle     string   `json:"subtitle"`
	Artist       string   `json:"artist"`
	Album        string   `json:"album"`
	Words        string   `json:"words"`
	Copyright    string   `json:"copyright"`
	TabbedBy     string   `json:"tabbed_by"`
	Instructions string   `json:"instructions"`
	Notice       []string `json:"notice"`
}

type MidiChannel struct {
	Instrument int32 `json:"instrument"`
	Volume     uint8 `json:"volume"`
	Balance    uint8 `json:"balance"`
	Chorus     uint8 `json:"chorus"`
	Reverb     uint8 `json:"reverb"`
	Phaser     uint8 `json:"phaser"`
	Tremolo    uint8 `json:"tremolo"`
	Blank1     uint8 `json:"-"`
	Blank2     uint8 `json:"-"`
}

type Measure struct {
	BeatCount int32  `json:"beat_count"`
	Beats     []Beat `json:"beats"`
}

// Measure returns nil when either index is out of range.
func (s *Song) Measure(measureIndex, trackIndex int) *Measure {
	if measureIndex < 0 || measureIndex >= len(s.Measures) {
		return nil
	}
	row := s.Measures[measureIndex]
	if trackIndex < 0 || trackIndex >= len(row) {
		return nil
	}
	return &row[trackIndex]
}

// Track collects one track's column of the grid in measure order.
func (s *Song) Track(trackIndex int) []Measure {
	if trackIndex < 0 || trackIndex >= len(s.TrackHeaders) {
		return nil
	}
	res := make([]Measure, 0, len(s.Measures))
	for _, row := range s.Measures {
		res = append(res, row[trackIndex])
	}
	return res
}

// ChannelFor looks up the grid entry a track plays through. Ports and
// channels are stored 1-based.
func (s *Song) ChannelFor(t TrackHeader) (MidiChannel, bool) {
	port, channel := t.MidiPort-1, t.MidiChannel-1
	if port < 0 || port >= 4 || channel < 0 || channel >= 16 {
		return MidiChannel{}, false
	}
	return s.MidiChannels[port][channel], true
}
