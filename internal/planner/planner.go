package planner

import (
	"errors"
	"fmt"
	"math"

	"github.com/backmassage/reelsmith/internal/config"
)

// ErrNoImages is returned when a plan is requested without images.
var ErrNoImages = errors.New("no images to render")

// BuildPlan produces a RenderPlan for images and the narration at audioPath.
//
// Flow:
//  1. Total = min(audioDuration, MaxAudioSeconds); per clip = total/len(images)
//  2. Clip idx gets motion idx%6 and round(per clip × fps) frames (at least 1)
//  3. Encoder settings come from cfg; MP4 output gets +faststart
func BuildPlan(cfg *config.Config, images []string, audioPath string, audioDuration float64, outputPath string) (*RenderPlan, error) {
	if len(images) == 0 {
		return nil, ErrNoImages
	}
	if audioDuration <= 0 {
		return nil, fmt.Errorf("invalid narration duration %g", audioDuration)
	}

	total := math.Min(audioDuration, cfg.MaxAudioSeconds)
	perClip := total / float64(len(images))

	plan := &RenderPlan{
		AudioPath:     audioPath,
		OutputPath:    outputPath,
		Total:         total,
		PerClip:       perClip,
		Width:         cfg.Width,
		Height:        cfg.Height,
		FPS:           cfg.FPS,
		MotionAmount:  cfg.MotionAmount,
		VideoCodec:    cfg.VideoCodec,
		VideoBitrate:  cfg.VideoBitrate,
		Preset:        cfg.Preset,
		Threads:       cfg.Threads,
		AudioCodec:    cfg.AudioCodec,
		AudioBitrate:  cfg.AudioBitrate,
		SampleRate:    cfg.SampleRateHz,
		ContainerOpts: []string{"-movflags", "+faststart"},
	}

	frames := max(int(math.Round(perClip*float64(cfg.FPS))), 1)
	for i, img := range images {
		plan.Clips = append(plan.Clips, ClipPlan{
			Image:    img,
			Duration: perClip,
			Frames:   frames,
			Motion:   MotionFor(i),
		})
	}
	return plan, nil
}
