// Package protocol is the wire codec for the Maelstrom message envelope:
// one JSON object per line, {"src", "dest", "body"}, with the body's payload
// variant tagged by its "type" field and flattened into the body object.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

type Message struct {
	Src  string `json:"src"`
	Dst  string `json:"dest"`
	Body Body   `json:"body"`
}

// Body carries the optional message ids and the tagged payload. MsgID and
// InReplyTo are pointers because 0 is a legitimate id.
type Body struct {
	MsgID     *int
	InReplyTo *int
	Payload   Payload
}

func (b Body) MarshalJSON() ([]byte, error) {
	if b.Payload == nil {
		return nil, errors.New("body has no payload")
	}

	raw, err := json.Marshal(b.Payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", b.Payload.Kind(), err)
	}

	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("flatten %s payload: %w", b.Payload.Kind(), err)
	}

	fields["type"], err = json.Marshal(b.Payload.Kind())
	if err != nil {
		return nil, err
	}

	if b.MsgID != nil {
		if fields["msg_id"], err = json.Marshal(*b.MsgID); err != nil {
			return nil, err
		}
	}

	if b.InReplyTo != nil {
		if fields["in_reply_to"], err = json.Marshal(*b.InReplyTo); err != nil {
			return nil, err
		}
	}

	return json.Marshal(fields)
}

func (b *Body) UnmarshalJSON(data []byte) error {
	var head struct {
		Type      string `json:"type"`
		MsgID     *int   `json:"msg_id"`
		InReplyTo *int   `json:"in_reply_to"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}

	payload, err := newPayload(head.Type)
	if err != nil {
		return err
	}

	// payload fields sit at the top level of the body object, so the whole
	// body decodes into the variant struct
	if err := json.Unmarshal(data, payload); err != nil {
		return fmt.Errorf("decode %s payload: %w", head.Type, err)
	}

	b.MsgID = head.MsgID
	b.InReplyTo = head.InReplyTo
	b.Payload = payload

	return nil
}
