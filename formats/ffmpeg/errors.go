// SPDX-License-Identifier: EPL-2.0

package ffmpeg

import "errors"

var ErrNoAudioStream = errors.New("ffprobe found no audio stream")
