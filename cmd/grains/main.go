// SPDX-License-Identifier: EPL-2.0

// Command grains loops a region of an audio file, optionally reversed and
// transposed, in an interactive terminal UI, headless, or rendered to WAV.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ik5/grains"
	"github.com/ik5/grains/audio"
	"github.com/ik5/grains/engine"
	"github.com/ik5/grains/formats/ffmpeg"
	"github.com/ik5/grains/formats/wav"
	"github.com/ik5/grains/internal/config"
	"github.com/ik5/grains/internal/ui"
	"github.com/ik5/grains/internal/worker"
	"github.com/ik5/grains/loop"
	"github.com/ik5/grains/output"
	"github.com/ik5/grains/pitch"
	"github.com/ik5/grains/session"
	"github.com/ik5/grains/utils"
)

const renderChunk = 4096

var (
	start    = flag.Float64("start", 0, "Loop start in seconds")
	end      = flag.Float64("end", 0, "Loop end in seconds (0: end of file)")
	reverse  = flag.Bool("reverse", false, "Play the loop backwards")
	semis    = flag.Float64("pitch", 0, "Transposition in semitones")
	mode     = flag.String("mode", "", "Pitch mode: time or varispeed (default $GRAINS_PITCH_MODE or time)")
	buckets  = flag.Int("buckets", 0, "Waveform resolution (default $GRAINS_WAVEFORM_BUCKETS or 300)")
	render   = flag.String("render", "", "Render the loop to this WAV file instead of playing it")
	seconds  = flag.Float64("seconds", 10, "Length of the render in seconds")
	noTUI    = flag.Bool("no-tui", false, "Play without the TUI until interrupted")
	logFile  = flag.String("log-file", "", "Log file path (default $GRAINS_LOG_FILE)")
	showList = flag.Bool("formats", false, "List supported file extensions and exit")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <file>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg := config.Load()
	if *mode != "" {
		cfg.PitchMode = *mode
	}
	if *buckets > 0 {
		cfg.WaveformBuckets = *buckets
	}
	if *logFile != "" {
		cfg.LogFile = *logFile
	}

	reg := grains.NewRegistry(ffmpeg.Decoder{FFmpeg: cfg.FFmpeg, FFprobe: cfg.FFprobe})
	if *showList {
		for _, f := range reg.Formats() {
			fmt.Println(f)
		}
		return
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	useTUI := !*noTUI && *render == ""

	closeLog, err := setupLogging(cfg.LogFile, useTUI)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer closeLog()

	if err := run(cfg, reg, flag.Arg(0), useTUI); err != nil {
		fmt.Fprintln(os.Stderr, "grains:", err)
		closeLog()
		os.Exit(1)
	}
}

// setupLogging sends logs to the file only while the TUI owns the
// terminal, and to stderr as well otherwise.
func setupLogging(path string, useTUI bool) (func(), error) {
	if path == "" {
		if useTUI {
			log.SetOutput(io.Discard)
		}
		return func() {}, nil
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666)
	if err != nil {
		return nil, err
	}

	if useTUI {
		log.SetOutput(f)
	} else {
		log.SetOutput(io.MultiWriter(os.Stderr, f))
	}

	return func() { _ = f.Close() }, nil
}

func run(cfg config.Config, reg *audio.Registry, path string, useTUI bool) error {
	strategy, err := cfg.Strategy()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool := worker.NewPool(cfg.DecodeQueue)
	pool.Start(cfg.DecodeWorkers)
	defer pool.Stop()

	var sink engine.Sink
	offline := output.NewOffline()
	if *render != "" {
		sink = offline
	} else {
		sink = output.NewOto(cfg.OutputBuffer)
	}

	eng := engine.New(sink, engine.Config{Strategy: strategy})
	defer func() {
		if err := eng.Close(); err != nil {
			log.Printf("WARN closing engine: %v", err)
		}
	}()

	sess := session.New(eng, func(p string) (*audio.Asset, error) {
		return audio.DecodeFile(reg, p)
	}, pool, session.Options{
		Buckets:        cfg.WaveformBuckets,
		MaxLoopSeconds: cfg.MaxLoopSeconds,
	})

	if err := sess.Load(ctx, path); err != nil {
		return err
	}

	region := loop.Region{Start: *start, End: *end, Reversed: *reverse}
	if region.End <= 0 {
		region.End = sess.Duration()
	}
	if err := sess.SetRegion(region); err != nil {
		return err
	}
	sess.SetPitch(*semis)

	switch {
	case *render != "":
		return renderLoop(sess, offline, *render, *seconds)
	case useTUI:
		return ui.Run(sess, strategy.String(), eng.Events())
	default:
		return playHeadless(ctx, sess, eng.Events(), strategy)
	}
}

func playHeadless(ctx context.Context, sess *session.Session, events <-chan engine.Event, strategy pitch.Strategy) error {
	go func() {
		for ev := range events {
			log.Printf("engine: %v (state %v, %+.1f st, %d frames, reversed %v)",
				ev.Kind, ev.State, ev.Semitones, ev.Frames, ev.Reversed)
		}
	}()

	if err := sess.Play(); err != nil {
		return err
	}

	r := sess.Region()
	log.Printf("looping %.3fs-%.3fs of %s with %v pitch, interrupt to stop", r.Start, r.End, sess.Path(), strategy)

	<-ctx.Done()
	sess.Stop()

	return nil
}

// renderLoop plays the loop into the offline sink for the given length and
// writes the result as 16-bit WAV.
func renderLoop(sess *session.Session, sink *output.Offline, path string, length float64) error {
	if err := sess.Play(); err != nil {
		return err
	}
	if !sess.Playing() {
		return errors.New("loop region is empty")
	}

	rate, channels := sink.Format()
	total := int(length * float64(rate))

	pcm := make([]int16, 0, total*channels)
	chunk := make([]int16, renderChunk*channels)
	for done := 0; done < total; {
		n := min(renderChunk, total-done)
		samples, err := sink.Render(n)
		if err != nil {
			return err
		}
		m := utils.Float32sToInt16s(chunk, samples)
		pcm = append(pcm, chunk[:m]...)
		done += n
	}
	sess.Stop()

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := wav.WriteWAV16(f, rate, channels, pcm); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	log.Printf("rendered %.2fs to %s", float64(total)/float64(rate), path)

	return nil
}
