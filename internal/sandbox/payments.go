package sandbox

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/angelmondragon/storefront-client/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"
)

const (
	pixMerchantName = "STOREFRONT SANDBOX"
	pixMerchantCity = "SAO PAULO"
	qrSize          = 256
)

// Bill is a payment issued for one order.
type Bill struct {
	ID             string
	PaymentLink    *string
	InvoiceURL     *string
	PixQrCodeImage *string
	PixCopyPaste   *string
}

// PaymentIssuer fakes the payment provider: card orders get a hosted link,
// PIX orders a QR image and copy-paste code.
type PaymentIssuer struct {
	linkBase string
	newID    func() string
}

func NewPaymentIssuer(linkBase string) *PaymentIssuer {
	return &PaymentIssuer{linkBase: strings.TrimRight(linkBase, "/"), newID: uuid.NewString}
}

func (p *PaymentIssuer) Issue(method enums.PaymentMethod, amount decimal.Decimal) (Bill, error) {
	id := p.newID()
	bill := Bill{ID: id}
	invoice := p.linkBase + "/" + id
	bill.InvoiceURL = &invoice

	if method != enums.PaymentMethodPix {
		link := invoice + "/pay"
		bill.PaymentLink = &link
		return bill, nil
	}

	code := pixPayload(strings.ReplaceAll(id, "-", ""), amount)
	img, err := renderQR(code)
	if err != nil {
		return Bill{}, err
	}
	bill.PixCopyPaste = &code
	bill.PixQrCodeImage = &img
	return bill, nil
}

// pixPayload builds a static BR Code for amount.
func pixPayload(txid string, amount decimal.Decimal) string {
	if len(txid) > 25 {
		txid = txid[:25]
	}
	var b strings.Builder
	b.WriteString(emv("00", "01"))
	b.WriteString(emv("26", emv("00", "br.gov.bcb.pix")+emv("01", "sandbox@storefront.local")))
	b.WriteString(emv("52", "0000"))
	b.WriteString(emv("53", "986"))
	b.WriteString(emv("54", amount.StringFixed(2)))
	b.WriteString(emv("58", "BR"))
	b.WriteString(emv("59", pixMerchantName))
	b.WriteString(emv("60", pixMerchantCity))
	b.WriteString(emv("62", emv("05", txid)))
	b.WriteString("6304")
	return b.String() + fmt.Sprintf("%04X", crc16CCITT([]byte(b.String())))
}

func emv(id, value string) string {
	return fmt.Sprintf("%s%02d%s", id, len(value), value)
}

func crc16CCITT(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, c := range data {
		crc ^= uint16(c) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}

// renderQR encodes payload as a QR code PNG and returns it as bare base64.
func renderQR(payload string) (string, error) {
	img, err := qrcode.Encode(payload, qrcode.Medium, qrSize)
	if err != nil {
		return "", fmt.Errorf("encode pix qr image: %w", err)
	}
	return base64.StdEncoding.EncodeToString(img), nil
}
