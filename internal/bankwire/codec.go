package bankwire

import (
	"google.golang.org/protobuf/encoding/protowire"
)

// appendString appends a length-delimited string field. Zero values are
// omitted, matching proto3 encoding.
func appendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}

	b = protowire.AppendTag(b, num, protowire.BytesType)

	return protowire.AppendString(b, v)
}

// appendInt64 appends a varint field. Zero values are omitted.
func appendInt64(b []byte, num protowire.Number, v int64) []byte {
	if v == 0 {
		return b
	}

	b = protowire.AppendTag(b, num, protowire.VarintType)

	return protowire.AppendVarint(b, uint64(v))
}

// fieldFunc consumes the value of one known field from the front of b and
// returns the number of bytes consumed. Returning 0 marks the field as
// unknown so that the walker skips it.
type fieldFunc func(num protowire.Number, typ protowire.Type, b []byte) (int, error)

// walkFields decodes the wire stream field by field, delegating known fields
// to fn and skipping unknown ones. Unknown fields are tolerated; structural
// damage is not.
func walkFields(data []byte, fn fieldFunc) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return ErrMalformedMessage
		}

		data = data[n:]

		n, err := fn(num, typ, data)
		if err != nil {
			return err
		}

		if n == 0 {
			n = protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return ErrMalformedMessage
			}
		}

		data = data[n:]
	}

	return nil
}

func consumeString(b []byte, dst *string) (int, error) {
	v, n := protowire.ConsumeString(b)
	if n < 0 {
		return 0, ErrMalformedMessage
	}

	*dst = v

	return n, nil
}

func consumeInt64(b []byte, dst *int64) (int, error) {
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, ErrMalformedMessage
	}

	*dst = int64(v)

	return n, nil
}

// Marshal encodes the message. Encoding never fails.
func (m *CreateUserRequest) Marshal() []byte {
	var b []byte
	b = appendString(b, 1, m.Name)

	return b
}

// Unmarshal decodes the message, returning ErrMalformedMessage on
// structurally invalid input.
func (m *CreateUserRequest) Unmarshal(data []byte) error {
	return walkFields(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 && typ == protowire.BytesType {
			return consumeString(b, &m.Name)
		}

		return 0, nil
	})
}

// Marshal encodes the message.
func (m *CreateUserResponse) Marshal() []byte {
	var b []byte
	b = appendString(b, 1, m.ID)
	b = appendString(b, 2, m.Message)

	return b
}

// Unmarshal decodes the message.
func (m *CreateUserResponse) Unmarshal(data []byte) error {
	return walkFields(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			return consumeString(b, &m.ID)
		case num == 2 && typ == protowire.BytesType:
			return consumeString(b, &m.Message)
		}

		return 0, nil
	})
}

// Marshal encodes the message.
func (m *DepositRequest) Marshal() []byte {
	var b []byte
	b = appendString(b, 1, m.UserID)
	b = appendInt64(b, 2, m.Amount)

	return b
}

// Unmarshal decodes the message.
func (m *DepositRequest) Unmarshal(data []byte) error {
	return walkFields(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			return consumeString(b, &m.UserID)
		case num == 2 && typ == protowire.VarintType:
			return consumeInt64(b, &m.Amount)
		}

		return 0, nil
	})
}

// Marshal encodes the message.
func (m *DepositResponse) Marshal() []byte {
	var b []byte
	b = appendInt64(b, 1, m.NewBalance)
	b = appendString(b, 2, m.Message)

	return b
}

// Unmarshal decodes the message.
func (m *DepositResponse) Unmarshal(data []byte) error {
	return walkFields(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == 1 && typ == protowire.VarintType:
			return consumeInt64(b, &m.NewBalance)
		case num == 2 && typ == protowire.BytesType:
			return consumeString(b, &m.Message)
		}

		return 0, nil
	})
}

// Marshal encodes the message.
func (m *WithdrawRequest) Marshal() []byte {
	var b []byte
	b = appendString(b, 1, m.UserID)
	b = appendInt64(b, 2, m.Amount)

	return b
}

// Unmarshal decodes the message.
func (m *WithdrawRequest) Unmarshal(data []byte) error {
	return walkFields(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			return consumeString(b, &m.UserID)
		case num == 2 && typ == protowire.VarintType:
			return consumeInt64(b, &m.Amount)
		}

		return 0, nil
	})
}

// Marshal encodes the message.
func (m *WithdrawResponse) Marshal() []byte {
	var b []byte
	b = appendInt64(b, 1, m.NewBalance)
	b = appendString(b, 2, m.Message)

	return b
}

// Unmarshal decodes the message.
func (m *WithdrawResponse) Unmarshal(data []byte) error {
	return walkFields(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == 1 && typ == protowire.VarintType:
			return consumeInt64(b, &m.NewBalance)
		case num == 2 && typ == protowire.BytesType:
			return consumeString(b, &m.Message)
		}

		return 0, nil
	})
}

// Marshal encodes the message.
func (m *GetBalanceRequest) Marshal() []byte {
	var b []byte
	b = appendString(b, 1, m.UserID)

	return b
}

// Unmarshal decodes the message.
func (m *GetBalanceRequest) Unmarshal(data []byte) error {
	return walkFields(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 && typ == protowire.BytesType {
			return consumeString(b, &m.UserID)
		}

		return 0, nil
	})
}

// Marshal encodes the message.
func (m *GetBalanceResponse) Marshal() []byte {
	var b []byte
	b = appendInt64(b, 1, m.Balance)

	return b
}

// Unmarshal decodes the message.
func (m *GetBalanceResponse) Unmarshal(data []byte) error {
	return walkFields(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 && typ == protowire.VarintType {
			return consumeInt64(b, &m.Balance)
		}

		return 0, nil
	})
}

// Marshal encodes the message.
func (m *SendRequest) Marshal() []byte {
	var b []byte
	b = appendString(b, 1, m.FromUserID)
	b = appendString(b, 2, m.ToUserID)
	b = appendInt64(b, 3, m.Amount)

	return b
}

// Unmarshal decodes the message.
func (m *SendRequest) Unmarshal(data []byte) error {
	return walkFields(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			return consumeString(b, &m.FromUserID)
		case num == 2 && typ == protowire.BytesType:
			return consumeString(b, &m.ToUserID)
		case num == 3 && typ == protowire.VarintType:
			return consumeInt64(b, &m.Amount)
		}

		return 0, nil
	})
}

// Marshal encodes the message.
func (m *SendResponse) Marshal() []byte {
	var b []byte
	b = appendString(b, 1, m.Message)
	b = appendInt64(b, 2, m.FromUserNewBalance)

	return b
}

// Unmarshal decodes the message.
func (m *SendResponse) Unmarshal(data []byte) error {
	return walkFields(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			return consumeString(b, &m.Message)
		case num == 2 && typ == protowire.VarintType:
			return consumeInt64(b, &m.FromUserNewBalance)
		}

		return 0, nil
	})
}

// Marshal encodes the message.
func (m *ErrorResponse) Marshal() []byte {
	var b []byte
	b = appendString(b, 1, m.Kind)
	b = appendString(b, 2, m.Message)

	return b
}

// Unmarshal decodes the message.
func (m *ErrorResponse) Unmarshal(data []byte) error {
	return walkFields(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			return consumeString(b, &m.Kind)
		case num == 2 && typ == protowire.BytesType:
			return consumeString(b, &m.Message)
		}

		return 0, nil
	})
}
