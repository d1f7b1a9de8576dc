package livecue

import "encoding/json"

// The rotation covers ad markers of increasing duration followed by custom
// key/value payloads of increasing size, so every pass through it exercises
// small and large timed-metadata frames in the stream.
var cuePayloads = []json.RawMessage{
	json.RawMessage(`{"duration": "30"}`),
	json.RawMessage(`{"duration": "60"}`),
	json.RawMessage(`{"duration": "120"}`),
	json.RawMessage(`{"duration": "240"}`),
	json.RawMessage(`{"key1":"value1","key2":"value2","key3":"value3"}`),
	json.RawMessage(`{"key1":"value1","key2":"value2","key3":"value3","key4":"value4","key5":"value5","key6":"value6"}`),
	json.RawMessage(`{"key1":"value1","key2":"value2","key3":"value3","key4":"value4","key5":"value5","key6":"value6","key7":"value7","key8":"value8","key9":"value9","key0":"value0"}`),
	json.RawMessage(`{"key1":"value1","key2":"value2","key3":"value3","key4":"value4","key5":"value5","key6":"value6","key7":"value7","key8":"value8","key9":"value9","key0":"value0","newkey1":"newvalue1","newkey2":"newvalue2","newkey3":"newvalue3","newkey4":"newvalue4","newkey5":"newvalue5","newkey6":"newvalue6","newkey7":"newvalue7","newkey8":"newvalue8","newkey9":"newvalue9","newkey0":"newvalue0"}`),
}

// payloadAt returns the cue parameters for the nth injection, cycling
// through the rotation.
func payloadAt(n int) json.RawMessage {
	return cuePayloads[n%len(cuePayloads)]
}
