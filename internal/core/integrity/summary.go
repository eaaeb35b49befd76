package integrity

import (
	"sort"
	"time"

	"github.com/example/pledge/internal/core/schedule"
)

// PromiseDef is a promise definition as the scorer needs it.
type PromiseDef struct {
	ID       string
	GoalID   string // sprint goal the promise belongs to
	GoalText string
	Text     string
	Rule     schedule.Rule

	// From and To bound the days the promise exists, usually its sprint.
	// Zero values leave the period's bound in place.
	From time.Time
	To   time.Time
}

// Log is one completion record.
type Log struct {
	PromiseID string
	Date      time.Time
	Completed bool
}

// DailyLog carries the self-reported energy and effort of one day.
type DailyLog struct {
	Date        time.Time
	Energy      int // 1..5, 0 when not reported
	MotionUnits int
	ActionUnits int
}

// SummaryInput is everything Summarize reads. AsOf is "today": days after it
// are not yet due. A zero AsOf means the period is evaluated up to End.
type SummaryInput struct {
	Logs      []Log
	Promises  []PromiseDef
	DailyLogs []DailyLog
	Start     time.Time
	End       time.Time
	AsOf      time.Time
}

// WeekStat is a promise's result within one ISO week of the period.
type WeekStat struct {
	WeekStart time.Time
	Target    int
	Actual    int
	Ratio     float64
	Elapsed   bool // the week (clipped to the period) ended before AsOf
}

// WeekProgress is a weekly promise's standing in the week containing AsOf.
type WeekProgress struct {
	Target   int
	Done     int
	DaysLeft int
}

// Needed is the number of completions still missing this week.
func (w WeekProgress) Needed() int {
	if w.Done >= w.Target {
		return 0
	}
	return w.Target - w.Done
}

// PromiseSummary is a promise's result over the period.
type PromiseSummary struct {
	PromiseID string
	GoalID    string
	Text      string
	Type      schedule.Type
	Target    int
	Actual    int
	Ratio     float64
	Streak    int
	Weeks     []WeekStat
	ThisWeek  *WeekProgress // weekly promises whose period contains AsOf
}

// GoalSummary aggregates the promises of one goal.
type GoalSummary struct {
	GoalID   string
	GoalText string
	Target   int
	Actual   int
	Ratio    float64
	Promises []PromiseSummary
}

// PeriodSummary is the derived view of one review period.
type PeriodSummary struct {
	Start time.Time
	End   time.Time
	AsOf  time.Time

	Goals     []GoalSummary
	Target    int
	Actual    int
	KeptRatio float64

	LogCount      int
	DaysLogged    int
	EnergyEntries int
	AverageEnergy float64
	EnergyTrend   float64 // later half minus earlier half
	UnitsTrend    float64 // later half minus earlier half, units per logged day
	MotionUnits   int
	ActionUnits   int

	Score int
	Band  Band
}

// Promises returns every promise summary in goal order.
func (s PeriodSummary) Promises() []PromiseSummary {
	var out []PromiseSummary
	for _, g := range s.Goals {
		out = append(out, g.Promises...)
	}
	return out
}

// UnitsPerLoggedDay is the average of motion plus action units over days
// with a daily log.
func (s PeriodSummary) UnitsPerLoggedDay() float64 {
	if s.DaysLogged == 0 {
		return 0
	}
	return float64(s.MotionUnits+s.ActionUnits) / float64(s.DaysLogged)
}

// Summarize computes the period summary. It never fails: missing input
// yields zero targets and ratios.
func Summarize(in SummaryInput) PeriodSummary {
	start := schedule.DateOf(in.Start)
	end := schedule.DateOf(in.End)
	asOf := end
	if !in.AsOf.IsZero() {
		asOf = schedule.DateOf(in.AsOf)
	}
	// Days after AsOf are not due yet.
	windowEnd := end
	if asOf.Before(windowEnd) {
		windowEnd = asOf
	}

	s := PeriodSummary{Start: start, End: end, AsOf: asOf}

	completed := make(map[string]map[time.Time]bool)
	known := make(map[string]bool, len(in.Promises))
	for _, p := range in.Promises {
		known[p.ID] = true
	}
	for _, l := range in.Logs {
		d := schedule.DateOf(l.Date)
		if d.Before(start) || d.After(end) {
			continue
		}
		s.LogCount++
		if !l.Completed || !known[l.PromiseID] || d.After(windowEnd) {
			continue
		}
		if completed[l.PromiseID] == nil {
			completed[l.PromiseID] = make(map[time.Time]bool)
		}
		completed[l.PromiseID][d] = true
	}

	goalIndex := make(map[string]int)
	for _, p := range in.Promises {
		pStart, pEnd := start, end
		if !p.From.IsZero() {
			pStart = maxDate(start, schedule.DateOf(p.From))
		}
		if !p.To.IsZero() {
			pEnd = minDate(end, schedule.DateOf(p.To))
		}
		last := minDate(windowEnd, pEnd)
		ps := summarizePromise(p, completed[p.ID], pStart, pEnd, last, asOf)
		// completions outside the promise's own span earn no action units
		s.ActionUnits += countIn(completed[p.ID], pStart, last)
		i, ok := goalIndex[p.GoalID]
		if !ok {
			i = len(s.Goals)
			goalIndex[p.GoalID] = i
			s.Goals = append(s.Goals, GoalSummary{GoalID: p.GoalID, GoalText: p.GoalText})
		}
		g := &s.Goals[i]
		g.Promises = append(g.Promises, ps)
		g.Target += ps.Target
		g.Actual += ps.Actual
		s.Target += ps.Target
		s.Actual += ps.Actual
	}
	for i := range s.Goals {
		s.Goals[i].Ratio = ratio(s.Goals[i].Actual, s.Goals[i].Target)
	}
	s.KeptRatio = ratio(s.Actual, s.Target)

	summarizeDays(&s, in.DailyLogs, start, windowEnd)

	s.Score = CalculateIntegrityScore(s.MotionUnits, s.ActionUnits)
	s.Band = Classify(s.Score)
	return s
}

func summarizePromise(p PromiseDef, done map[time.Time]bool, start, end, windowEnd, asOf time.Time) PromiseSummary {
	ps := PromiseSummary{PromiseID: p.ID, GoalID: p.GoalID, Text: p.Text, Type: p.Rule.Type}
	if windowEnd.Before(start) {
		return ps
	}

	for ws := schedule.WeekStart(start); !ws.After(windowEnd); ws = schedule.AddDays(ws, 7) {
		from, to := maxDate(ws, start), minDate(schedule.AddDays(ws, 6), windowEnd)
		var w WeekStat
		w.WeekStart = ws
		w.Elapsed = minDate(schedule.AddDays(ws, 6), end).Before(asOf)

		switch p.Rule.Type {
		case schedule.TypeDaily:
			schedule.EachDay(from, to, func(d time.Time) {
				if schedule.IsDue(p.Rule, d) {
					w.Target++
					if done[d] {
						w.Actual++
					}
				}
			})
		case schedule.TypeWeekly:
			w.Target = prorate(p.Rule.WeeklyTarget, daysBetween(from, to))
			w.Actual = min(countIn(done, from, to), w.Target)
		}
		w.Ratio = ratio(w.Actual, w.Target)
		ps.Target += w.Target
		ps.Actual += w.Actual
		ps.Weeks = append(ps.Weeks, w)
	}
	ps.Ratio = ratio(ps.Actual, ps.Target)

	if p.Rule.Type == schedule.TypeWeekly && !asOf.Before(start) && !asOf.After(end) {
		ws := schedule.WeekStart(asOf)
		weekTo := minDate(schedule.AddDays(ws, 6), end)
		ps.ThisWeek = &WeekProgress{
			Target:   prorate(p.Rule.WeeklyTarget, daysBetween(maxDate(ws, start), weekTo)),
			Done:     countIn(done, maxDate(ws, start), asOf),
			DaysLeft: daysBetween(asOf, weekTo),
		}
	}

	switch p.Rule.Type {
	case schedule.TypeDaily:
		ps.Streak = dailyStreak(p.Rule, done, start, windowEnd)
	case schedule.TypeWeekly:
		ps.Streak = weeklyStreak(ps.Weeks)
	}
	return ps
}

// dailyStreak counts consecutive kept due days ending at last. An unkept
// last day does not break it since it may still be completed.
func dailyStreak(r schedule.Rule, done map[time.Time]bool, start, last time.Time) int {
	n := 0
	for d := last; !d.Before(start); d = schedule.AddDays(d, -1) {
		if !schedule.IsDue(r, d) {
			continue
		}
		if done[d] {
			n++
		} else if !d.Equal(last) {
			break
		}
	}
	return n
}

// weeklyStreak counts consecutive weeks that met their (prorated) target,
// newest first. An unmet week still in progress does not break it.
func weeklyStreak(weeks []WeekStat) int {
	n := 0
	for i := len(weeks) - 1; i >= 0; i-- {
		w := weeks[i]
		if w.Target > 0 && w.Actual >= w.Target {
			n++
			continue
		}
		if i == len(weeks)-1 && !w.Elapsed {
			continue
		}
		break
	}
	return n
}

func summarizeDays(s *PeriodSummary, days []DailyLog, start, windowEnd time.Time) {
	var in []DailyLog
	for _, d := range days {
		date := schedule.DateOf(d.Date)
		if date.Before(start) || date.After(windowEnd) {
			continue
		}
		d.Date = date
		in = append(in, d)
	}
	sort.SliceStable(in, func(i, j int) bool { return in[i].Date.Before(in[j].Date) })

	var energies, units []float64
	for _, d := range in {
		s.DaysLogged++
		s.MotionUnits += max(d.MotionUnits, 0)
		s.ActionUnits += max(d.ActionUnits, 0)
		units = append(units, float64(max(d.MotionUnits, 0)+max(d.ActionUnits, 0)))
		if d.Energy >= 1 && d.Energy <= 5 {
			energies = append(energies, float64(d.Energy))
		}
	}
	s.EnergyEntries = len(energies)
	s.AverageEnergy = mean(energies)
	s.EnergyTrend = trend(energies)
	s.UnitsTrend = trend(units)
}

// trend is the mean of the later half minus the mean of the earlier half.
// With an odd count the middle value belongs to neither half.
func trend(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	half := len(xs) / 2
	return mean(xs[len(xs)-half:]) - mean(xs[:half])
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// prorate scales a weekly target to a partial week, rounding up.
func prorate(target, days int) int {
	if days >= 7 {
		return target
	}
	return (target*days + 6) / 7
}

func countIn(done map[time.Time]bool, from, to time.Time) int {
	n := 0
	for d := range done {
		if !d.Before(from) && !d.After(to) {
			n++
		}
	}
	return n
}

func daysBetween(from, to time.Time) int {
	if to.Before(from) {
		return 0
	}
	return int(to.Sub(from).Hours()/24) + 1
}

func ratio(actual, target int) float64 {
	if target == 0 {
		return 0
	}
	return float64(actual) / float64(target)
}

func minDate(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

func maxDate(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
