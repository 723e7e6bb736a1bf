package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// ChecksumField is the parameter the gateway uses to carry the signature.
// It is never part of the signed set.
const ChecksumField = "CHECKSUMHASH"

// TxnSuccess is the gateway status value for a settled transaction. Any
// other value is treated as failure (closed default).
const TxnSuccess = "TXN_SUCCESS"

// PaytmService signs and verifies gateway parameter sets and builds the
// hosted-checkout redirect URL. Both operations are pure and keyed by the
// merchant key.
type PaytmService struct {
	MerchantID   string
	MerchantKey  string
	Website      string
	ChannelID    string
	IndustryType string
	BaseURL      string
	CallbackURL  string
}

type Config struct {
	MerchantID   string
	MerchantKey  string
	Website      string
	ChannelID    string
	IndustryType string
	BaseURL      string
	CallbackURL  string
}

func NewPaytmService(cfg Config) *PaytmService {
	return &PaytmService{
		MerchantID:   cfg.MerchantID,
		MerchantKey:  cfg.MerchantKey,
		Website:      cfg.Website,
		ChannelID:    cfg.ChannelID,
		IndustryType: cfg.IndustryType,
		BaseURL:      cfg.BaseURL,
		CallbackURL:  cfg.CallbackURL,
	}
}

// BuildTransactionParams assembles the parameter set for one checkout
// attempt. The customer id is the donor email, matching the web form.
func (p *PaytmService) BuildTransactionParams(orderID, email, mobile, amount string) map[string]string {
	return map[string]string{
		"MID":              p.MerchantID,
		"WEBSITE":          p.Website,
		"CHANNEL_ID":       p.ChannelID,
		"INDUSTRY_TYPE_ID": p.IndustryType,
		"ORDER_ID":         orderID,
		"CUST_ID":          email,
		"TXN_AMOUNT":       amount,
		"CALLBACK_URL":     p.CallbackURL,
		"EMAIL":            email,
		"MOBILE_NO":        mobile,
	}
}

// GenerateChecksum produces the keyed digest over the parameter set.
// Deterministic: keys are sorted and values joined before signing. The
// checksum field itself is always excluded.
func (p *PaytmService) GenerateChecksum(params map[string]string) (string, error) {
	if p.MerchantKey == "" {
		return "", fmt.Errorf("merchant key is not configured")
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		if k == ChecksumField {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := make([]string, 0, len(keys))
	for _, k := range keys {
		values = append(values, params[k])
	}

	mac := hmac.New(sha256.New, []byte(p.MerchantKey))
	mac.Write([]byte(strings.Join(values, "|")))
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// VerifyChecksum recomputes the digest over params (minus the checksum
// field) and compares in constant time.
func (p *PaytmService) VerifyChecksum(params map[string]string, checksum string) bool {
	expected, err := p.GenerateChecksum(params)
	if err != nil {
		return false
	}
	return hmac.Equal([]byte(expected), []byte(checksum))
}

// PaymentURL builds the redirect to the hosted payment page. The params
// are expected to already include the checksum.
func (p *PaytmService) PaymentURL(params map[string]string) string {
	query := url.Values{}
	for k, v := range params {
		query.Set(k, v)
	}
	return fmt.Sprintf("%s?%s", p.BaseURL, query.Encode())
}
