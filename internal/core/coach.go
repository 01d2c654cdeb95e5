package core

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/valter-silva-au/focus-flow/pkg/models"
)

// CoachMode selects the rule set used to build a coach report.
type CoachMode string

const (
	CoachMomentum CoachMode = "momentum"
	CoachBalance  CoachMode = "balance"
	CoachReset    CoachMode = "reset"
)

// CoachModeInfo describes a coach mode for pickers and help output.
type CoachModeInfo struct {
	ID          CoachMode `json:"id"`
	Label       string    `json:"label"`
	Description string    `json:"description"`
}

// CoachModes returns the available modes in display order.
func CoachModes() []CoachModeInfo {
	return []CoachModeInfo{
		{ID: CoachMomentum, Label: "Momentum boost", Description: "Progressni tezlatish va keyingi blokni kuchli boshlash."},
		{ID: CoachBalance, Label: "Balans", Description: "Energiya va dam olishni nazorat qilib, ritmni ushlang."},
		{ID: CoachReset, Label: "Reset", Description: "Reja chippakka ketsa, yangi start uchun maydon tozalang."},
	}
}

// ParseCoachMode resolves a mode name case-insensitively.
func ParseCoachMode(s string) (CoachMode, error) {
	mode := CoachMode(strings.ToLower(strings.TrimSpace(s)))
	for _, m := range CoachModes() {
		if m.ID == mode {
			return mode, nil
		}
	}
	return "", fmt.Errorf("unknown coach mode %q: must be one of momentum, balance, reset", s)
}

// NextCoachMode cycles through the modes in display order.
func NextCoachMode(mode CoachMode) CoachMode {
	modes := CoachModes()
	for i, m := range modes {
		if m.ID == mode {
			return modes[(i+1)%len(modes)].ID
		}
	}
	return CoachMomentum
}

// Short coach messages, in selection priority order.
const (
	msgEmptyDay = "Bugun jadvalga hali vazifalar qo'shilmagan. Planner sahifasida haftangizni to'ldirib oling."
	msgLegend   = "Legend! Bugun deyarli hamma vazifani uddaladingiz. O'zingizga mukofot tayyorlang."
	msgOffPlan  = "Bugun reja chetga chiqdi. Nima halaqit berganini yozib chiqing va ertangi jadvalda himoya loyihasini belgilang."
	msgOverdue  = "Ikki va undan ko'p vazifa hozircha bajarilmagan. Eng muhimini tanlab, dastlab shu birini yoping."
	msgHalfway  = "Yaxshi start! Ritmni ushlab turing, keyingi sprintni ham shu motivatsiyada yakunlang."
	msgDefault  = "Bugun hali oldinda ko'p vaqt bor. Eng muhim vazifadan boshlang va fokusni 25 daqiqaga yo'naltiring."
)

// CoachMessage picks the one-line coach message for the day's counters.
// The overdue threshold here (two or more) is deliberately looser than the
// report's, which mentions any overdue task.
func CoachMessage(progress float64, overdue, skipped, total int) string {
	switch {
	case total == 0:
		return msgEmptyDay
	case progress >= 0.9:
		return msgLegend
	case skipped >= int(math.Ceil(float64(total)/2)):
		return msgOffPlan
	case overdue >= 2:
		return msgOverdue
	case progress >= 0.5:
		return msgHalfway
	default:
		return msgDefault
	}
}

// CoachReport is the long-form coach output for one render.
type CoachReport struct {
	Mode     CoachMode `json:"mode"`
	Headline string    `json:"headline"`
	Summary  string    `json:"summary"`
	Actions  []string  `json:"actions"`
}

const (
	maxCoachActions   = 4
	fallbackHeadline  = "Bugungi coach sharhi"
	fallbackAction    = "Bugungi progress asosida qisqa refleksiya yozib qo'ying."
	resetHeadline     = "Reset va qayta fokusing"
	mustDoAction      = "Bugungi kun uchun 2-3 ta 'must-do' blok kiriting va vaqtni belgilang."
	penaltyAction     = "Penaltilarni qoplash uchun ertaga bir 'boss' yoki 'deep work' blokini oldindan tayyorlang."
	rewardAction      = "Mukofot do'konidan kichik sovrin tanlab, g'alabani mustahkamlab qo'ying."
	logYourWinsAction = "Bugungi g'alabalarni yozib, ertangi kun uchun ustuvorlikni aniqlab qo'ying."
)

// BuildCoachReport derives the coach report from the day's snapshot, the
// ledger entries recorded today and the current coin balance. It is a pure
// function: identical inputs always produce an identical report.
func BuildCoachReport(mode CoachMode, today TodaySnapshot, ledger []models.CoinLedgerEntry, coinBank int) CoachReport {
	completion := today.CompletionPercent()
	net := NetCoins(ledger)

	var summary []string
	if today.Total == 0 {
		summary = append(summary, "Bugungi jadval hali bo'sh. Haftalik maqsadlaringizni eslab, kamida ikkita asosiy blok qo'shish vaqti.")
	} else {
		summary = append(summary, fmt.Sprintf("Bugun %d ta blokdan %d tasi bajarildi (%d%% bajarilish).", today.Total, today.Completed, completion))
	}
	if today.Overdue > 0 {
		summary = append(summary, fmt.Sprintf("%d ta vazifa hozircha kechikmoqda, eng muhimini tanlab, 15 daqiqalik fokus slot bilan yopib qo'ying.", today.Overdue))
	}
	if today.Skipped > 0 {
		summary = append(summary, fmt.Sprintf("%d ta blok o'tkazib yuborildi. Nima sabab bo'lganini yozib chiqing va ertangi jadvalda himoya strategiyasini belgilang.", today.Skipped))
	}
	if net != 0 {
		summary = append(summary, fmt.Sprintf("Coin harakati: %s. Joriy balans %d coin, mukofot rejangizni yangilashni unutmang.", signedCoins(net), coinBank))
	}

	var nextLabel string
	if today.NextTask != nil {
		nextLabel = fmt.Sprintf("%s (%s)", today.NextTask.Title, today.NextTask.Start.Format("15:04"))
	}

	var headline string
	var actions []string
	switch mode {
	case CoachMomentum:
		headline = pickHeadline(completion, 80, 50,
			"Momentumni ushlab turing!",
			"Momentumni kuchaytirish vaqti",
			"Bugun start uchun signal bering")
		if nextLabel != "" {
			actions = append(actions, fmt.Sprintf("Keyingi blok: %s. 5 daqiqa tayyorgarlik rituali bilan boshlang.", nextLabel))
		}
		if today.Overdue > 0 {
			actions = append(actions, "Kechikayotgan vazifalardan bittasini tanlab, 15 daqiqali mini-sprint bilan yeching.")
		}
		actions = append(actions, "Fokusni himoyalash uchun telefoni flight modega, brauzer oynalarini esa yopiq holda qoldiring.")
	case CoachBalance:
		headline = pickHeadline(completion, 70, 40,
			"Balans mukammal",
			"Balansni tekislang",
			"Energiya va reja o'rtasida balans qidiring")
		actions = append(actions, "3 daqiqa chuqur nafas mashqi yoki qisqa yurish bilan energiyani yangilang.")
		if today.Total > 0 && today.Completed < today.Total {
			actions = append(actions, "Eng yengil blokni tanlab, 'quick win' sifatida yakunlab qo'ying.")
		}
		actions = append(actions, "Kun yakunida ikki jumlalik refleksiya yozib, o'rganilgan darslarni qayd eting.")
	case CoachReset:
		headline = resetHeadline
		if today.Total == 0 {
			actions = append(actions, mustDoAction)
		}
		if today.Skipped > 0 {
			actions = append(actions, "O'tkazilgan vazifalardan bittasini ertangi jadvalga qayta joylashtiring.")
		}
		actions = append(actions, "Joriy ustuvorliklarni yozib chiqing va kalendarni yangilab oling.")
		if nextLabel == "" {
			actions = append(actions, "Bugun uchun kichik g'alaba blokini tanlab, kech soatlarda ham bajarishga harakat qiling.")
		}
	}

	switch {
	case net < 0:
		actions = append(actions, penaltyAction)
	case net > 0:
		actions = append(actions, rewardAction)
	}
	if today.Total > 0 && today.Completed == today.Total {
		actions = append(actions, logYourWinsAction)
	}

	actions = uniqueActions(actions, maxCoachActions)
	if len(actions) == 0 {
		actions = []string{fallbackAction}
	}
	if headline == "" {
		headline = fallbackHeadline
	}

	return CoachReport{
		Mode:     mode,
		Headline: headline,
		Summary:  strings.Join(summary, " "),
		Actions:  actions,
	}
}

// LedgerForDay returns the entries recorded on day's local calendar day.
// Entries without a date are ignored.
func LedgerForDay(ledger []models.CoinLedgerEntry, day time.Time) []models.CoinLedgerEntry {
	var out []models.CoinLedgerEntry
	for _, e := range ledger {
		if e.Date.IsZero() {
			continue
		}
		if SameDay(day, e.Date) {
			out = append(out, e)
		}
	}
	return out
}

// NetCoins sums the amounts of the given entries.
func NetCoins(ledger []models.CoinLedgerEntry) int {
	net := 0
	for _, e := range ledger {
		net += e.Amount
	}
	return net
}

func pickHeadline(completion, high, mid int, top, middle, low string) string {
	switch {
	case completion >= high:
		return top
	case completion >= mid:
		return middle
	default:
		return low
	}
}

func signedCoins(n int) string {
	if n > 0 {
		return fmt.Sprintf("+%d", n)
	}
	return fmt.Sprintf("%d", n)
}

func uniqueActions(actions []string, limit int) []string {
	seen := make(map[string]struct{}, len(actions))
	out := make([]string, 0, limit)
	for _, a := range actions {
		if a == "" {
			continue
		}
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
		if len(out) == limit {
			break
		}
	}
	return out
}
