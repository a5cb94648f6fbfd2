package schema

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash"
)

// Digest fingerprints the survey input of a run. Two runs over the same
// components, in the same order, get the same digest.
func Digest(components []Component, samples []Sample) uint64 {
	h := xxhash.New()
	var buf [8]byte
	writeInt := func(v int64) {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		h.Write(buf[:])
	}
	writeFloat := func(v float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		h.Write(buf[:])
	}
	writeString := func(s string) {
		writeInt(int64(len(s)))
		h.Write([]byte(s))
	}

	writeInt(int64(len(components)))
	for _, c := range components {
		writeInt(c.Fid)
		writeString(c.Type)
		if c.Classified {
			h.Write([]byte{1})
		} else {
			h.Write([]byte{0})
		}
		writeString(c.Surface)
		writeFloat(c.Area)
		writeInt(c.Num)
		writeFloat(c.Width)
		writeFloat(c.Height)
		writeFloat(c.Angle)
		writeFloat(c.Perimeter)
		writeFloat(c.BBoxArea)
		writeString(c.Sample)
		writeString(c.Site)
		writeString(c.Room)
		writeString(c.Usm)
	}
	writeInt(int64(len(samples)))
	for _, s := range samples {
		writeString(s.Sample)
		writeString(s.Site)
		writeString(s.Room)
		writeString(s.Usm)
		writeFloat(s.Area)
	}
	return h.Sum64()
}
