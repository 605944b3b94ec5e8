package avro

import (
	"fmt"
	"sync"
	"time"

	"github.com/linkedin/goavro/v2"

	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/audit"
)

// Codec converts audit events to and from Avro binary. goavro codecs are not
// safe for concurrent use, hence the mutex.
type Codec struct {
	codec *goavro.Codec
	mu    sync.Mutex
}

func NewCodec() (*Codec, error) {
	codec, err := goavro.NewCodec(AuditEventSchema)
	if err != nil {
		return nil, fmt.Errorf("create avro codec: %w", err)
	}
	return &Codec{codec: codec}, nil
}

func (c *Codec) Encode(e audit.Event) ([]byte, error) {
	native := map[string]interface{}{
		"id":       e.ID,
		"username": e.Username,
		"action":   e.Action,
		"info":     goavro.Union("string", e.Info),
		"at":       e.At.UTC().Format(time.RFC3339Nano),
	}
	if e.Info == "" {
		native["info"] = nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	binary, err := c.codec.BinaryFromNative(nil, native)
	if err != nil {
		return nil, fmt.Errorf("encode audit event: %w", err)
	}
	return binary, nil
}

func (c *Codec) Decode(data []byte) (audit.Event, error) {
	c.mu.Lock()
	native, _, err := c.codec.NativeFromBinary(data)
	c.mu.Unlock()
	if err != nil {
		return audit.Event{}, fmt.Errorf("decode audit event: %w", err)
	}

	record, ok := native.(map[string]interface{})
	if !ok {
		return audit.Event{}, fmt.Errorf("audit event is not a record")
	}

	e := audit.Event{
		ID:       asString(record["id"]),
		Username: asString(record["username"]),
		Action:   asString(record["action"]),
	}
	if union, ok := record["info"].(map[string]interface{}); ok {
		e.Info = asString(union["string"])
	}
	if at, err := time.Parse(time.RFC3339Nano, asString(record["at"])); err == nil {
		e.At = at
	}
	return e, nil
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}
