package mqtt

import "log"

// pendingMsg stores a serialized system message for replay after reconnection.
type pendingMsg struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// pendingBuffer is a fixed-capacity FIFO holding system messages while the
// broker is unreachable. When full, the oldest message is dropped.
// Not safe for concurrent use — caller must synchronize.
type pendingBuffer struct {
	msgs    []pendingMsg
	cap     int
	dropped bool // true if any message was dropped since last drain
}

func newPendingBuffer(capacity int) *pendingBuffer {
	return &pendingBuffer{cap: capacity}
}

func (b *pendingBuffer) push(msg pendingMsg) {
	if len(b.msgs) == b.cap {
		if !b.dropped {
			log.Printf("mqtt: pending buffer full (%d messages), dropping oldest", b.cap)
			b.dropped = true
		}
		copy(b.msgs, b.msgs[1:])
		b.msgs[len(b.msgs)-1] = msg
		return
	}
	b.msgs = append(b.msgs, msg)
}

func (b *pendingBuffer) drainAll() []pendingMsg {
	if len(b.msgs) == 0 {
		return nil
	}
	out := b.msgs
	b.msgs = nil
	b.dropped = false
	return out
}

func (b *pendingBuffer) len() int {
	return len(b.msgs)
}
