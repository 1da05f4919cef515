package sound

import _ "embed"

// defaultClick is the built-in notification sound, used when the config
// does not name an audio file.
//
//go:embed assets/click.wav
var defaultClick []byte
