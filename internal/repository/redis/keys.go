package redisrepo

import "fmt"

const ns = "musclemeter:v1"

func KeyGymCatalog() string {
	return ns + ":gyms:catalog"
}

func KeyGymSummary(gymID int64) string {
	return fmt.Sprintf("%s:gym:%d:summary", ns, gymID)
}

func KeyOwnerStats(ownerID int64) string {
	return fmt.Sprintf("%s:owner:%d:stats", ns, ownerID)
}

// KeyRateLimit is a limiter prefix; SlidingWindowLimiter appends the
// per-client suffix itself.
func KeyRateLimit(scope string) string {
	return fmt.Sprintf("%s:rl:%s", ns, scope)
}

func KeyIdemCheckout(gymID, planID int64, idemKey string) string {
	return fmt.Sprintf("%s:idem:checkout:%d:%d:%s", ns, gymID, planID, idemKey)
}

func ChannelBookingsCreated() string {
	return ns + ":bookings:created"
}
