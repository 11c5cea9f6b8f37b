// SPDX-License-Identifier: EPL-2.0

package wav_test

import (
	"bytes"
	"fmt"

	"github.com/ik5/grains/audio"
	"github.com/ik5/grains/formats/wav"
)

// Example_roundTrip writes a stereo clip and decodes it back into an asset.
func Example_roundTrip() {
	var buf bytes.Buffer
	_ = wav.WriteWAV16(&buf, 44100, 2, []int16{100, -100, 200, -200, 300, -300, 400, -400})

	src, err := wav.Decoder{}.Decode(&buf)
	if err != nil {
		fmt.Println("decode:", err)
		return
	}

	asset, err := audio.ReadAsset(src)
	if err != nil {
		fmt.Println("read:", err)
		return
	}

	fmt.Printf("%d Hz, %d channels, %d frames\n", asset.SampleRate(), asset.NumChannels(), asset.Frames())
	// Output: 44100 Hz, 2 channels, 4 frames
}
