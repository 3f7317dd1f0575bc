package signature

import (
	"crypto"
	"crypto/hmac"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/hex"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/sealdoc/sealdoc/internal/config"
	"github.com/sealdoc/sealdoc/internal/latex"
)

const (
	privateKeyFile = "private_key.pem"
	publicKeyFile  = "public_key.pem"

	rsaKeyBits = 2048
)

// Signature binds an identity, a timestamp and context data to a canonical
// byte sequence. Value is base64 for RSA-PSS, lowercase hex for HMAC.
type Signature struct {
	Payload   Payload
	Value     string
	Algorithm Algorithm
}

// Service produces and verifies signatures over canonically serialized
// payloads. Key material is loaded once per process and is read-only
// afterwards, so one Service is safe for concurrent use. When no asymmetric
// key pair is available the service degrades to HMAC-SHA256 with the
// configured fallback secret instead of failing construction.
type Service struct {
	keysDir        string
	fallbackSecret []byte

	initOnce   sync.Once
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
}

func New(cfg config.Signature) *Service {
	return &Service{
		keysDir:        cfg.KeysDir,
		fallbackSecret: []byte(cfg.FallbackSecret),
	}
}

// Initialize loads or generates the persistent key pair. It runs at most
// once per Service; every signing entry point calls it, so explicit
// initialization is optional.
func (s *Service) Initialize() {
	s.initOnce.Do(s.loadOrGenerateKeys)
}

// AsymmetricEnabled reports whether an RSA key pair is loaded. False means
// the service signs with the HMAC fallback.
func (s *Service) AsymmetricEnabled() bool {
	s.Initialize()
	return s.privateKey != nil
}

// PublicKeyPEM returns the persisted public key in PEM form.
func (s *Service) PublicKeyPEM() ([]byte, error) {
	s.Initialize()
	if s.publicKey == nil {
		return nil, errors.New("no asymmetric key pair loaded")
	}
	raw, err := os.ReadFile(s.publicKeyPath())
	if err != nil {
		return nil, errors.Wrap(err, "read public key")
	}
	return raw, nil
}

func (s *Service) privateKeyPath() string {
	return filepath.Join(s.keysDir, privateKeyFile)
}

func (s *Service) publicKeyPath() string {
	return filepath.Join(s.keysDir, publicKeyFile)
}

// loadOrGenerateKeys leaves both keys nil on any failure: key management
// errors degrade the service to HMAC signing, they never abort it.
func (s *Service) loadOrGenerateKeys() {
	if err := s.tryLoadOrGenerateKeys(); err != nil {
		log.Warn().Err(err).Str("keys_dir", s.keysDir).Msg("Key management failed, falling back to HMAC signing")
		s.privateKey = nil
		s.publicKey = nil
	}
}

func (s *Service) tryLoadOrGenerateKeys() error {
	if fileExists(s.privateKeyPath()) && fileExists(s.publicKeyPath()) {
		privateKey, publicKey, err := loadKeyPair(s.privateKeyPath(), s.publicKeyPath())
		if err != nil {
			return errors.Wrap(err, "load key pair")
		}
		s.privateKey = privateKey
		s.publicKey = publicKey
		log.Info().Str("keys_dir", s.keysDir).Msg("Loaded existing signature keys")
		return nil
	}

	if err := os.MkdirAll(s.keysDir, 0o700); err != nil {
		return errors.Wrap(err, "create keys dir")
	}

	privateKey, err := rsa.GenerateKey(rand.Reader, rsaKeyBits)
	if err != nil {
		return errors.Wrap(err, "generate key pair")
	}
	if err := persistKeyPair(privateKey, s.privateKeyPath(), s.publicKeyPath()); err != nil {
		return errors.Wrap(err, "persist key pair")
	}

	s.privateKey = privateKey
	s.publicKey = &privateKey.PublicKey
	log.Info().Str("keys_dir", s.keysDir).Msg("Generated new signature keys")
	return nil
}

func loadKeyPair(privatePath, publicPath string) (*rsa.PrivateKey, *rsa.PublicKey, error) {
	privateRaw, err := os.ReadFile(privatePath)
	if err != nil {
		return nil, nil, errors.Wrap(err, "read private key")
	}
	block, _ := pem.Decode(privateRaw)
	if block == nil {
		return nil, nil, errors.New("private key is not PEM encoded")
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, nil, errors.Wrap(err, "parse private key")
	}
	privateKey, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, nil, errors.Errorf("private key is %T, expected RSA", parsed)
	}

	publicRaw, err := os.ReadFile(publicPath)
	if err != nil {
		return nil, nil, errors.Wrap(err, "read public key")
	}
	block, _ = pem.Decode(publicRaw)
	if block == nil {
		return nil, nil, errors.New("public key is not PEM encoded")
	}
	parsedPub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, nil, errors.Wrap(err, "parse public key")
	}
	publicKey, ok := parsedPub.(*rsa.PublicKey)
	if !ok {
		return nil, nil, errors.Errorf("public key is %T, expected RSA", parsedPub)
	}
	return privateKey, publicKey, nil
}

func persistKeyPair(privateKey *rsa.PrivateKey, privatePath, publicPath string) error {
	privateDER, err := x509.MarshalPKCS8PrivateKey(privateKey)
	if err != nil {
		return errors.Wrap(err, "marshal private key")
	}
	privatePEM := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: privateDER})
	if err := os.WriteFile(privatePath, privatePEM, 0o600); err != nil {
		return errors.Wrap(err, "write private key")
	}

	publicDER, err := x509.MarshalPKIXPublicKey(&privateKey.PublicKey)
	if err != nil {
		return errors.Wrap(err, "marshal public key")
	}
	publicPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: publicDER})
	if err := os.WriteFile(publicPath, publicPEM, 0o644); err != nil {
		return errors.Wrap(err, "write public key")
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Timestamp returns the current UTC instant in RFC 3339 form, used as the
// timestamp field of a payload.
func (s *Service) Timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func pssOptions() *rsa.PSSOptions {
	return &rsa.PSSOptions{SaltLength: rsa.PSSSaltLengthAuto, Hash: crypto.SHA256}
}

// Sign builds a payload from the given fields and signs its canonical bytes.
// RSA-PSS is used when a key pair is loaded, HMAC-SHA256 otherwise. Sign
// never fails: a degenerate AlgorithmNone signature is returned if signing
// itself errors, so document assembly is never aborted by the signer.
func (s *Service) Sign(signerID, timestamp string, contextData ContextMap) Signature {
	s.Initialize()

	payload := Payload{SignerID: signerID, Timestamp: timestamp, Context: contextData}
	canonical, err := payload.CanonicalBytes()
	if err != nil {
		log.Warn().Err(err).Str("signer_id", signerID).Msg("Payload canonicalization failed")
		return Signature{Payload: payload, Value: PlaceholderValue, Algorithm: AlgorithmNone}
	}

	if s.privateKey != nil {
		digest := sha256.Sum256(canonical)
		raw, err := rsa.SignPSS(rand.Reader, s.privateKey, crypto.SHA256, digest[:], pssOptions())
		if err != nil {
			log.Warn().Err(err).Str("signer_id", signerID).Msg("RSA-PSS signing failed")
			return Signature{Payload: payload, Value: PlaceholderValue, Algorithm: AlgorithmNone}
		}
		return Signature{
			Payload:   payload,
			Value:     base64.StdEncoding.EncodeToString(raw),
			Algorithm: AlgorithmRSAPSS256,
		}
	}

	mac := hmac.New(sha256.New, s.fallbackSecret)
	mac.Write(canonical)
	return Signature{
		Payload:   payload,
		Value:     hex.EncodeToString(mac.Sum(nil)),
		Algorithm: AlgorithmHMAC256,
	}
}

// Verify recomputes the canonical bytes of payload and checks value against
// them, dispatching on the recorded algorithm. Any decode or key failure is
// a verification failure, never an error: the result is always a plain bool.
func (s *Service) Verify(payload Payload, value string, algorithm Algorithm) bool {
	s.Initialize()

	canonical, err := payload.CanonicalBytes()
	if err != nil {
		return false
	}

	switch algorithm {
	case AlgorithmRSAPSS256:
		if s.publicKey == nil {
			return false
		}
		raw, err := base64.StdEncoding.DecodeString(value)
		if err != nil {
			return false
		}
		digest := sha256.Sum256(canonical)
		return rsa.VerifyPSS(s.publicKey, crypto.SHA256, digest[:], raw, pssOptions()) == nil
	case AlgorithmHMAC256:
		mac := hmac.New(sha256.New, s.fallbackSecret)
		mac.Write(canonical)
		expected := hex.EncodeToString(mac.Sum(nil))
		return hmac.Equal([]byte(expected), []byte(value))
	default:
		return false
	}
}

// VerifySignature checks a Signature value against its own payload.
func (s *Service) VerifySignature(sig Signature) bool {
	return s.Verify(sig.Payload, sig.Value, sig.Algorithm)
}

// FormatForDisplay renders a short human-readable signature line.
func (s *Service) FormatForDisplay(sig Signature) string {
	return fmt.Sprintf("Signed by %s at %s using %s [%s...]",
		sig.Payload.SignerID, sig.Payload.Timestamp, sig.Algorithm, truncateValue(sig.Value))
}

// FormatForLatex renders the framed signature block embedded into composed
// documents. All fields are escaped before insertion.
func (s *Service) FormatForLatex(sig Signature) string {
	return fmt.Sprintf(`\begin{center}
\framebox{
\begin{minipage}{0.8\textwidth}
\textbf{Digital Signature}\\
Signed by: %s\\
Date and Time: %s\\
Method: %s\\
Signature: %s\\
\end{minipage}
}
\end{center}`,
		latex.Escape(sig.Payload.SignerID),
		latex.Escape(sig.Payload.Timestamp),
		latex.Escape(string(sig.Algorithm)),
		latex.Escape(truncateValue(sig.Value)+"..."))
}

// StampContent appends or prepends the embedded-signature marker recognized
// by the composer's provenance scan.
func (s *Service) StampContent(content string, sig Signature, atEnd bool) string {
	marker := fmt.Sprintf("[Signed: %s at %s]", sig.Payload.SignerID, sig.Payload.Timestamp)
	if content == "" {
		return marker
	}
	if atEnd {
		return content + "\n\n" + marker
	}
	return marker + "\n\n" + content
}

func truncateValue(value string) string {
	if value == "" {
		return "Invalid"
	}
	if len(value) > 16 {
		return value[:16]
	}
	return value
}
