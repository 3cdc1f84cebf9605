package services

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/carelinkvn/clinic-app/apperr"
	"github.com/carelinkvn/clinic-app/config"
	"github.com/carelinkvn/clinic-app/models"
)

// SepayService xu ly ky so va cac loi goi HTTP den cong thanh toan SePay
type SepayService struct {
	cfg        *config.Config
	httpClient *http.Client
}

func NewSepayService(cfg *config.Config) *SepayService {
	return &SepayService{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// BankTransferInfo la khoi huong dan chuyen khoan tra ve cho client
type BankTransferInfo struct {
	BankName      string          `json:"bankName"`
	AccountNumber string          `json:"accountNumber"`
	AccountName   string          `json:"accountName"`
	Amount        decimal.Decimal `json:"amount"`
	Content       string          `json:"content"`
}

// CreatePaymentResponse la phan hoi da giai ma tu POST /payments cua SePay
type CreatePaymentResponse struct {
	GatewayTransactionID string `json:"transactionId"`
	PaymentURL           string `json:"paymentUrl"`
}

// SignPayload ky HMAC-SHA256 tren chuoi "key=value" noi bang "&",
// key sap xep theo thu tu tu dien. Ket qua la hex chu thuong.
func (s *SepayService) SignPayload(fields map[string]string) (string, error) {
	if s.cfg.SepaySecretKey == "" {
		return "", fmt.Errorf("SEPAY_SECRET_KEY chua duoc cau hinh: %w", apperr.ErrConfiguration)
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+fields[k])
	}

	mac := hmac.New(sha256.New, []byte(s.cfg.SepaySecretKey))
	mac.Write([]byte(strings.Join(pairs, "&")))
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// VerifySignature tinh lai chu ky va so sanh bang hmac.Equal.
// Day la co che xac thuc duy nhat cho webhook.
func (s *SepayService) VerifySignature(fields map[string]string, signature string) (bool, error) {
	expected, err := s.SignPayload(fields)
	if err != nil {
		return false, err
	}
	return hmac.Equal([]byte(expected), []byte(signature)), nil
}

// CreatePaymentRequest dang ky giao dich voi SePay. Moi loi transport
// hoac ma tra ve ngoai 2xx deu duoc boc thanh ErrGatewayUnavailable,
// khong bao gio lo loi tho ra ngoai.
func (s *SepayService) CreatePaymentRequest(ctx context.Context, order *models.Order, payment *models.PaymentTransaction) (*CreatePaymentResponse, error) {
	if s.cfg.SepayAPIKey == "" {
		return nil, fmt.Errorf("SEPAY_API_KEY chua duoc cau hinh: %w", apperr.ErrConfiguration)
	}

	fields := map[string]string{
		"amount":    payment.Amount.StringFixed(0),
		"reference": payment.TransactionCode,
		"orderCode": order.OrderCode,
		"timestamp": strconv.FormatInt(time.Now().Unix(), 10),
	}
	signature, err := s.SignPayload(fields)
	if err != nil {
		return nil, err
	}

	body := map[string]string{
		"amount":      fields["amount"],
		"reference":   fields["reference"],
		"orderCode":   fields["orderCode"],
		"timestamp":   fields["timestamp"],
		"description": "Thanh toan don hang " + order.OrderCode,
		"webhookUrl":  s.cfg.SepayWebhookURL,
		"signature":   signature,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.SepayBaseURL+"/payments", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.SepayAPIKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("goi SePay that bai: %v: %w", err, apperr.ErrGatewayUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("SePay tra ve %d: %s: %w", resp.StatusCode, string(raw), apperr.ErrGatewayUnavailable)
	}

	var out CreatePaymentResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("giai ma phan hoi SePay: %v: %w", err, apperr.ErrGatewayUnavailable)
	}
	return &out, nil
}

// BuildQRURL tao URL anh QR chuyen khoan. Tham so des mang dung
// transaction code lam noi dung chuyen khoan.
func (s *SepayService) BuildQRURL(amount decimal.Decimal, content string) string {
	q := url.Values{}
	q.Set("acc", s.cfg.BankAccountNumber)
	q.Set("bank", s.cfg.BankName)
	q.Set("amount", amount.StringFixed(0))
	q.Set("des", content)
	return s.cfg.SepayQRBaseURL + "?" + q.Encode()
}

// BankInfo dung huong dan chuyen khoan thu cong cho phuong thuc khac CASH.
func (s *SepayService) BankInfo(amount decimal.Decimal, content string) *BankTransferInfo {
	return &BankTransferInfo{
		BankName:      s.cfg.BankName,
		AccountNumber: s.cfg.BankAccountNumber,
		AccountName:   s.cfg.BankAccountName,
		Amount:        amount,
		Content:       content,
	}
}
