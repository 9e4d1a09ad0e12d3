// Package auth stores session tokens in the system keyring, one per partner.
package auth

import (
	"errors"
	"strconv"

	"github.com/samber/mo"
	"github.com/tasvirchi/tasvir/constant"
	"github.com/zalando/go-keyring"
)

const service = constant.App

func user(partnerID int) string {
	return "partner-" + strconv.Itoa(partnerID)
}

// SetToken stores the session ts of a partner.
func SetToken(partnerID int, ts string) error {
	return keyring.Set(service, user(partnerID), ts)
}

// Token returns the stored session ts of a partner. A missing token is
// None, not an error.
func Token(partnerID int) (mo.Option[string], error) {
	ts, err := keyring.Get(service, user(partnerID))
	if errors.Is(err, keyring.ErrNotFound) {
		return mo.None[string](), nil
	}
	if err != nil {
		return mo.None[string](), err
	}
	return mo.Some(ts), nil
}

func DeleteToken(partnerID int) error {
	err := keyring.Delete(service, user(partnerID))
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
