// SPDX-License-Identifier: EPL-2.0

package grains

import (
	"sync"

	"github.com/ik5/grains/audio"
	"github.com/ik5/grains/formats/aiff"
	"github.com/ik5/grains/formats/ffmpeg"
	"github.com/ik5/grains/formats/flac"
	"github.com/ik5/grains/formats/mp3"
	"github.com/ik5/grains/formats/vorbis"
	"github.com/ik5/grains/formats/wav"
)

// NewRegistry returns a registry with every supported format. ff decodes
// the containers no pure Go decoder handles.
func NewRegistry(ff ffmpeg.Decoder) *audio.Registry {
	reg := audio.NewRegistry()

	reg.Register("wav", wav.Decoder{})
	reg.Register("wave", wav.Decoder{})
	reg.Register("aiff", aiff.Decoder{})
	reg.Register("aif", aiff.Decoder{})
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("ogg", vorbis.Decoder{})
	reg.Register("oga", vorbis.Decoder{})
	reg.Register("flac", flac.Decoder{})

	for _, ext := range []string{"m4a", "aac", "caf", "mp4", "alac"} {
		reg.Register(ext, ff)
	}

	return reg
}

var (
	defaultOnce     sync.Once
	defaultRegistry *audio.Registry
)

// DefaultRegistry is NewRegistry with ffmpeg and ffprobe taken from PATH.
func DefaultRegistry() *audio.Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry(ffmpeg.Decoder{})
	})
	return defaultRegistry
}

// DecodeFile decodes path with the default registry.
func DecodeFile(path string) (*audio.Asset, error) {
	return audio.DecodeFile(DefaultRegistry(), path)
}
