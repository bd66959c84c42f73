package db

import (
	"context"
	"time"

	"naikai-shop/internal/shop/app/core"
	"naikai-shop/internal/xpkg/tablestore"
)

type SettingsRepo struct {
	store tablestore.TableStore
}

func NewSettingsRepo(store tablestore.TableStore) *SettingsRepo {
	return &SettingsRepo{store: store}
}

// GetQRCode returns the stored payment QR image, or "" when none is set.
func (sr *SettingsRepo) GetQRCode(ctx context.Context) (string, error) {
	rows, err := sr.store.Select(ctx, tablestore.AppSettings, qrKey())
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", nil
	}
	v, _ := rows[0]["value"].(string)
	return v, nil
}

// UpsertQRCode updates the QR row if it exists and inserts it otherwise.
func (sr *SettingsRepo) UpsertQRCode(ctx context.Context, image string) error {
	rows, err := sr.store.Select(ctx, tablestore.AppSettings, qrKey())
	if err != nil {
		return err
	}

	if len(rows) > 0 {
		_, err = sr.store.Update(ctx, tablestore.AppSettings, tablestore.Row{
			"value":      image,
			"updated_at": time.Now().UTC(),
		}, qrKey())
		return err
	}

	return sr.store.Insert(ctx, tablestore.AppSettings, tablestore.Row{
		"key":   core.QRSettingKey,
		"value": image,
	})
}

func qrKey() tablestore.Eq {
	return tablestore.Eq{Column: "key", Value: core.QRSettingKey}
}
