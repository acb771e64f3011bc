// Package ffmpeg builds and executes ffmpeg commands with a shared argument
// skeleton and unified retry logic.
//
// Types:
//   - RetryState (tracks which fixes have been applied)
//   - 3 compiled regexes for stderr classification: unknown encoder, filter
//     graph failure, timestamp discontinuity.
//
// Functions:
//   - BuildTruncate(in, out, opts) → []string: cap narration length
//   - Build(plan, rs) → []string: the render command
//   - Execute(ctx, args, tee) → ExecResult
//   - (*RetryState).Advance(stderr) → RetryAction
//     One fix per attempt: encoder → motion → timestamp.
//     Max 4 attempts per render.
package ffmpeg
