// Package audio provides cross-platform audio playback using the oto/v3
// library. It plays raw PCM from the speech engines and handles pause,
// resume, and cancellation at the device level.
package audio
