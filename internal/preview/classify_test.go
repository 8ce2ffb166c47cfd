package preview

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		folder bool
		want   Kind
	}{
		{"folder", "assets/images", true, KindNone},
		{"png", "assets/cover.png", false, KindImage},
		{"uppercase ext", "assets/COVER.PNG", false, KindImage},
		{"jpeg", "scan.jpeg", false, KindImage},
		{"webp", "a/b/c/art.webp", false, KindImage},
		{"gif", "anim.gif", false, KindImage},
		{"mp3", "audio/track.mp3", false, KindAudio},
		{"wav", "fx.wav", false, KindAudio},
		{"m4a", "voice.m4a", false, KindAudio},
		{"aac", "voice.aac", false, KindAudio},
		{"ogg", "loop.ogg", false, KindAudio},
		{"mp4", "video/clip.mp4", false, KindVideo},
		{"webm", "clip.webm", false, KindVideo},
		{"mov", "raw.mov", false, KindVideo},
		{"unknown ext", "doc.xyz", false, KindUnsupported},
		{"no ext", "README", false, KindUnsupported},
		{"trailing dot", "weird.", false, KindUnsupported},
		{"dot in folder only", "v1.2/binary", false, KindUnsupported},
		{"multi dot", "archive.tar.gz", false, KindUnsupported},
		{"multi dot media", "intro.final.mp4", false, KindVideo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.path, tt.folder)
			if got != tt.want {
				t.Errorf("Classify(%q, %v) = %q, want %q", tt.path, tt.folder, got, tt.want)
			}
			// Deterministic: re-classifying yields the same kind.
			if again := Classify(tt.path, tt.folder); again != got {
				t.Errorf("Classify not deterministic: %q then %q", got, again)
			}
		})
	}
}

func TestKindStreams(t *testing.T) {
	if KindImage.Streams() {
		t.Error("Images must not use range requests")
	}
	if !KindAudio.Streams() || !KindVideo.Streams() {
		t.Error("Audio and video must use range requests")
	}
	if KindNone.Previewable() || KindUnsupported.Previewable() {
		t.Error("none/unsupported must not trigger a fetch")
	}
}
