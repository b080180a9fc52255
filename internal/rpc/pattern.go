package rpc

// Pattern names one request/reply operation on the alert store. The set is
// closed: the dispatcher matches it exhaustively, so adding a pattern means
// adding a case there as well.
type Pattern string

const (
	PatternCreateAlert      Pattern = "createAlert"
	PatternFindAllAlerts    Pattern = "findAllAlerts"
	PatternFindOneAlert     Pattern = "findOneAlert"
	PatternUpdateAlert      Pattern = "updateAlert"
	PatternRemoveAlert      Pattern = "removeAlert"
	PatternFindAlertsNearMe Pattern = "findAlertsNearMe"
	PatternRateAlert        Pattern = "rate-alert"
	PatternGetRatings       Pattern = "get-alert-ratings"
	PatternGetAverageRating Pattern = "get-average-alert-rating"
	PatternGetAllRatings    Pattern = "get-all-alert-ratings"
)

func (p Pattern) Known() bool {
	switch p {
	case PatternCreateAlert, PatternFindAllAlerts, PatternFindOneAlert,
		PatternUpdateAlert, PatternRemoveAlert, PatternFindAlertsNearMe,
		PatternRateAlert, PatternGetRatings, PatternGetAverageRating,
		PatternGetAllRatings:
		return true
	}
	return false
}
