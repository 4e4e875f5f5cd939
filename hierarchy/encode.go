package hierarchy

import (
	"fmt"

	"github.com/blang/semver"
	"github.com/dustin/go-humanize"
	"github.com/janelia-flyem/amr/amr"
)

// MarshalMsg appends the msgpack encoding of the hierarchy to b.
func (h *Hierarchy) MarshalMsg(b []byte) ([]byte, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s := snapshot{
		Version: amr.Version.String(),
		Origin:  h.origin,
		Desc:    h.desc,
		Levels:  h.levels,
	}
	return s.MarshalMsg(b)
}

// Encode returns the hierarchy's metadata and boxes, framed with the given
// compression and checksum.
func (h *Hierarchy) Encode(compress amr.Compression, checksum amr.Checksum) ([]byte, error) {
	data, err := h.MarshalMsg(nil)
	if err != nil {
		return nil, err
	}
	out, err := amr.SerializeData(data, compress, checksum)
	if err != nil {
		return nil, err
	}
	amr.Debugf("Encoded hierarchy: %s of metadata stored as %s with %s\n",
		humanize.Bytes(uint64(len(data))), humanize.Bytes(uint64(len(out))), compress)
	return out, nil
}

// Decode returns the hierarchy held in data produced by Encode.  The encoding
// version must be compatible with this build.
func Decode(data []byte, cacheBytes int) (*Hierarchy, error) {
	payload, _, err := amr.DeserializeData(data, true)
	if err != nil {
		return nil, err
	}
	var s snapshot
	if _, err := s.UnmarshalMsg(payload); err != nil {
		return nil, fmt.Errorf("unable to decode hierarchy: %v", err)
	}
	v, err := semver.Make(s.Version)
	if err != nil {
		return nil, fmt.Errorf("bad hierarchy encoding version %q: %v", s.Version, err)
	}
	if !amr.CompatibleWith(v) {
		return nil, fmt.Errorf("hierarchy encoded by version %s is incompatible with version %s", v, amr.Version)
	}
	if !s.Desc.Valid() {
		return nil, fmt.Errorf("hierarchy has bad grid description %d", s.Desc)
	}
	for level, lvl := range s.Levels {
		if lvl.Ratio < 1 {
			return nil, fmt.Errorf("hierarchy level %d has bad refinement ratio %d", level, lvl.Ratio)
		}
	}
	if !v.Equals(amr.Version) {
		amr.Warningf("Decoding hierarchy encoded by version %s with version %s\n", v, amr.Version)
	}
	h := New(s.Origin, s.Desc, cacheBytes)
	h.levels = s.Levels
	return h, nil
}
