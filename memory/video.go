package memory

// VIDEO_SIZE is the number of 32-bit cells in the video buffer.
const VIDEO_SIZE = 24_576

// Video is the video memory buffer.
//
// It is not mapped into the address space; the CPU cannot reach it until a
// rendering pipeline is attached.
type Video struct {
	Data [VIDEO_SIZE]uint32
}

// Reset zeros the video buffer.
func (video *Video) Reset() {
	clear(video.Data[:])
}
