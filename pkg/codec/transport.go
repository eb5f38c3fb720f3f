package codec

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/klauspost/compress/flate"
	"github.com/pulseid/platform/pkg/common/models"
)

const (
	schemeJSON    = "j"
	schemeDeflate = "z"

	// MaxDecodedBytes caps the JSON produced while parsing untrusted text.
	MaxDecodedBytes = 64 * 1024
)

// Transport converts compact payloads to and from text that is safe as a
// query-string value: a scheme letter, a dot, and unpadded base64url.
type Transport struct {
	compress bool
}

// NewTransport returns a transport; compress selects the deflate scheme
// for Serialize. Parse accepts every scheme regardless.
func NewTransport(compress bool) Transport {
	return Transport{compress: compress}
}

var defaultTransport = NewTransport(true)

func Serialize(p CompactPayload) (string, error) {
	return defaultTransport.Serialize(p)
}

func Parse(text string) (CompactPayload, error) {
	return defaultTransport.Parse(text)
}

func (t Transport) Serialize(p CompactPayload) (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}
	if !t.compress {
		return schemeJSON + "." + base64.RawURLEncoding.EncodeToString(raw), nil
	}

	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return "", fmt.Errorf("deflate payload: %w", err)
	}
	if _, err := w.Write(raw); err != nil {
		return "", fmt.Errorf("deflate payload: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("deflate payload: %w", err)
	}
	return schemeDeflate + "." + base64.RawURLEncoding.EncodeToString(buf.Bytes()), nil
}

// Parse decodes text produced by Serialize. A bare JSON object is also
// accepted, either in the compact schema or as the full-key profile older
// links carried. Anything that does not decode to an object with at least
// one recognised key yields a DecodeError.
func (t Transport) Parse(text string) (CompactPayload, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return CompactPayload{}, decodeErrorf("empty text: %w", ErrMalformedPayload)
	}

	raw, err := decodeText(text)
	if err != nil {
		return CompactPayload{}, err
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return CompactPayload{}, DecodeError{reason: ErrNotObject}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return CompactPayload{}, decodeErrorf("%v: %w", err, ErrMalformedPayload)
	}
	switch {
	case hasAnyKey(fields, compactKeys):
	case hasAnyKey(fields, legacyKeys):
		return decodeLegacy(raw)
	default:
		return CompactPayload{}, decodeErrorf("no recognised fields: %w", ErrMalformedPayload)
	}

	var p CompactPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return CompactPayload{}, decodeErrorf("%v: %w", err, ErrMalformedPayload)
	}
	if p.V > SchemaVersion {
		return CompactPayload{}, decodeErrorf("version %d: %w", p.V, ErrUnsupportedVersion)
	}
	return p, nil
}

// legacyProfile is the full-key profile JSON of older links. The emergency
// doctor was two flat fields, and any cached assessment is ignored since
// the viewer recomputes it.
type legacyProfile struct {
	models.Profile
	EmergencyDoctorName   string          `json:"emergencyDoctorName"`
	EmergencyDoctorNumber string          `json:"emergencyDoctorNumber"`
	RiskAssessment        json.RawMessage `json:"riskAssessment"`
	Timestamp             string          `json:"timestamp"`
}

// decodeLegacy maps a full-key profile through the compactor so it gets the
// same contact filtering and truncation as a fresh share.
func decodeLegacy(raw []byte) (CompactPayload, error) {
	var lp legacyProfile
	if err := json.Unmarshal(raw, &lp); err != nil {
		return CompactPayload{}, decodeErrorf("legacy profile: %v: %w", err, ErrMalformedPayload)
	}
	p := lp.Profile
	if lp.EmergencyDoctorName != "" || lp.EmergencyDoctorNumber != "" {
		p.EmergencyDoctor = &models.EmergencyDoctor{
			Name:   lp.EmergencyDoctorName,
			Number: lp.EmergencyDoctorNumber,
		}
	}
	var at time.Time
	if ts, err := time.Parse(time.RFC3339Nano, lp.Timestamp); err == nil {
		at = ts
	}
	return compactAt(p, at), nil
}

func hasAnyKey(fields map[string]json.RawMessage, keys []string) bool {
	for _, k := range keys {
		if _, ok := fields[k]; ok {
			return true
		}
	}
	return false
}

func decodeText(text string) ([]byte, error) {
	if strings.HasPrefix(text, "{") || strings.HasPrefix(text, "[") {
		if len(text) > MaxDecodedBytes {
			return nil, decodeErrorf("payload exceeds %d bytes: %w", MaxDecodedBytes, ErrMalformedPayload)
		}
		return []byte(text), nil
	}

	scheme, body, found := strings.Cut(text, ".")
	if !found {
		return nil, decodeErrorf("missing scheme: %w", ErrMalformedPayload)
	}
	data, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		return nil, decodeErrorf("base64: %v: %w", err, ErrMalformedPayload)
	}

	switch scheme {
	case schemeJSON:
		if len(data) > MaxDecodedBytes {
			return nil, decodeErrorf("payload exceeds %d bytes: %w", MaxDecodedBytes, ErrMalformedPayload)
		}
		return data, nil
	case schemeDeflate:
		r := flate.NewReader(bytes.NewReader(data))
		defer r.Close()
		out, err := io.ReadAll(io.LimitReader(r, MaxDecodedBytes+1))
		if err != nil {
			return nil, decodeErrorf("inflate: %v: %w", err, ErrMalformedPayload)
		}
		if len(out) > MaxDecodedBytes {
			return nil, decodeErrorf("payload exceeds %d bytes: %w", MaxDecodedBytes, ErrMalformedPayload)
		}
		return out, nil
	default:
		return nil, decodeErrorf("unknown scheme %q: %w", scheme, ErrMalformedPayload)
	}
}
