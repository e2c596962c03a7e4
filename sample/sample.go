package sample

import (
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

func min(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}

func IsNote(msg smf.Message) bool {
	return msg.Is(gomidi.NoteOnMsg) || msg.Is(gomidi.NoteOffMsg)
}

func isEndOfTrack(msg smf.Message) bool {
	return msg.Is(smf.MetaEndOfTrackMsg)
}

// Create cuts a preview out of mf starting at ticksOffset: at most maxNotes
// note-ons per track plus their note-offs. Other events before the offset
// (tempo, program, meter) are kept but squeezed together so the preview
// starts in the right state.
func Create(mf *smf.SMF, ticksOffset uint64, maxNotes int) *smf.SMF {
	res := smf.New()
	res.TimeFormat = mf.TimeFormat

	for _, track := range mf.Tracks {
		var newTrack smf.Track
		var absTicks uint64
		lastKept := ticksOffset
		var numNoteOn int
		sounding := map[uint8]bool{}

	TrackEventLoop:
		for _, evt := range track {
			absTicks += uint64(evt.Delta)
			if isEndOfTrack(evt.Message) {
				break
			}

			if absTicks < ticksOffset {
				if !IsNote(evt.Message) {
					evt.Delta = min(evt.Delta, 1)
					newTrack = append(newTrack, evt)
				}
				continue
			}

			var channel, key, velocity uint8
			isOn := evt.Message.GetNoteOn(&channel, &key, &velocity)
			isOff := !isOn && evt.Message.GetNoteOff(&channel, &key, &velocity)
			if isOn && numNoteOn >= maxNotes {
				continue
			}
			if isOff && !sounding[key] {
				continue
			}

			evt.Delta = uint32(absTicks - lastKept)
			lastKept = absTicks
			newTrack = append(newTrack, evt)

			switch {
			case isOn:
				sounding[key] = true
				numNoteOn++
			case isOff:
				delete(sounding, key)
			}
			if numNoteOn >= maxNotes && len(sounding) == 0 {
				break TrackEventLoop
			}
		}
		newTrack.Close(0)
		res.Tracks = append(res.Tracks, newTrack)
	}

	return res
}
