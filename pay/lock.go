package pay

import (
	"context"
	"log"
	"time"

	"mandi/rdx"
)

const checkoutLockTTL = 30 * time.Second

// AcquireCheckoutLock serializes checkouts per buyer with a Redis SetNX
// lease. Returns false when another checkout holds the lock.
func AcquireCheckoutLock(ctx context.Context, userID string) (bool, error) {
	key := "checkout_lock:" + userID
	return rdx.Conn.SetNX(ctx, key, "1", checkoutLockTTL).Result()
}

// ReleaseCheckoutLock releases the lock.
func ReleaseCheckoutLock(ctx context.Context, userID string) {
	key := "checkout_lock:" + userID
	if err := rdx.Conn.Del(ctx, key).Err(); err != nil {
		log.Printf("ReleaseCheckoutLock: failed for user %s, err=%v", userID, err)
	}
}
