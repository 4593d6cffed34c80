package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	}
	return false
}

// PlaidItem хранит выданный Plaid access token для привязанного счёта
type PlaidItem struct {
	AccessToken string `bson:"access_token,omitempty" json:"-"`
	ItemID      string `bson:"item_id,omitempty" json:"itemId,omitempty"`
}

type OffsetSubaccount struct {
	SubaccountID string    `bson:"subaccount_id,omitempty" json:"subaccountId,omitempty"`
	Name         string    `bson:"name,omitempty" json:"name,omitempty"`
	Email        string    `bson:"email,omitempty" json:"email,omitempty"`
	CreatedAt    time.Time `bson:"created_at,omitempty" json:"createdAt,omitempty"`
}

// OffsetOrder — исторический ордер CNaught, поля как их отдаёт API
type OffsetOrder struct {
	OrderID             string    `bson:"order_id,omitempty" json:"orderId,omitempty"`
	OrderNumber         string    `bson:"order_number,omitempty" json:"orderNumber,omitempty"`
	AmountKg            string    `bson:"amount_kg,omitempty" json:"amountKg,omitempty"`
	PriceUSDCents       string    `bson:"price_usd_cents,omitempty" json:"priceUsdCents,omitempty"`
	State               string    `bson:"state,omitempty" json:"state,omitempty"`
	DownloadCertificate string    `bson:"download_certificate,omitempty" json:"downloadCertificate,omitempty"`
	CreatedOn           time.Time `bson:"created_on,omitempty" json:"createdOn,omitempty"`
}

type User struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name             string             `bson:"name" json:"name" validate:"required"`
	Email            string             `bson:"email" json:"email" validate:"required,email"`
	Password         string             `bson:"password" json:"-" validate:"required,min=6"`
	Country          string             `bson:"country" json:"country" validate:"required"`
	Avatar           string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Role             Role               `bson:"role" json:"role"`
	SubscriptionType string             `bson:"subscription_type,omitempty" json:"subscriptionType,omitempty"`
	EmailToken       string             `bson:"email_token,omitempty" json:"-"`
	IsVerified       bool               `bson:"is_verified" json:"isVerified"`
	SignupDate       string             `bson:"signup_date,omitempty" json:"signupDate,omitempty"`

	PlaidItems        []PlaidItem          `bson:"plaid_items,omitempty" json:"-"`
	OffsetSubaccounts []OffsetSubaccount   `bson:"offset_subaccounts,omitempty" json:"offsetSubaccounts,omitempty"`
	OffsetOrders      []OffsetOrder        `bson:"offset_orders,omitempty" json:"offsetOrders,omitempty"`
	UploadedMedia     []primitive.ObjectID `bson:"uploaded_media,omitempty" json:"uploadedMedia,omitempty"`

	AmountKg float64 `bson:"amount_kg,omitempty" json:"amountKg,omitempty"`
}

func (u *User) HashPassword() error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

func (u *User) ComparePassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
}
