// Package planner turns a prepared image set and narration track into a
// RenderPlan: how long each clip lasts, which camera motion it gets, and the
// encoder settings the ffmpeg package turns into arguments.
//
//   - BuildPlan(cfg, images, audio, duration, output) → *RenderPlan
//   - MotionFilter(motion, frames, w, h, fps, amount) → zoompan filter
//   - EstimateSize(plan) → expected output bytes for dry runs
package planner
