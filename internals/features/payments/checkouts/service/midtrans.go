package service

import (
	"errors"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"

	"kursusku_backend/internals/features/payments/checkouts/model"
)

/* =========================================================
   Midtrans Client
========================================================= */

var SnapClient snap.Client

// InitMidtrans must be called during app bootstrap.
// useProduction=true for Production, false for Sandbox.
func InitMidtrans(serverKey string, useProduction bool) {
	if useProduction {
		SnapClient.New(serverKey, midtrans.Production)
	} else {
		SnapClient.New(serverKey, midtrans.Sandbox)
	}
}

/* =========================================================
   Generate Snap Token
========================================================= */

func GenerateSnapToken(m *model.CheckoutModel, customerEmail string) (string, string, error) {
	if m.CheckoutAmountIDR <= 0 {
		return "", "", errors.New("invalid checkout_amount_idr")
	}
	if m.CheckoutOrderID == "" {
		return "", "", errors.New("checkout_order_id is required (used as OrderID)")
	}

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  m.CheckoutOrderID,
			GrossAmt: m.CheckoutAmountIDR,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			Email: customerEmail,
		},
	}

	req.Items = &[]midtrans.ItemDetails{
		{
			ID:       m.CheckoutCourseID.String(),
			Price:    m.CheckoutAmountIDR,
			Qty:      1,
			Name:     truncate(m.CheckoutCourseTitleCache, 50),
			Category: "COURSE",
		},
	}

	resp, err := SnapClient.CreateTransaction(req)
	if err != nil {
		return "", "", err
	}
	return resp.Token, resp.RedirectURL, nil
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}
