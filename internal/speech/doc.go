// Package speech turns narration segments into audible output. It
// contains the synthesis engines (espeak-ng offline, Google Translate
// online), the fallback chain between them, and the speaker that routes
// synthesized PCM to the playback device.
package speech
