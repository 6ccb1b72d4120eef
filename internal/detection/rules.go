package detection

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/alexanderramin/haven/internal/domain"
	"gopkg.in/yaml.v3"
)

// Rules holds every tunable table the analyzers and the fuser read.
// Nothing in the analyzers hard-codes a phrase, cut point or weight.
type Rules struct {
	Chat       ChatRules       `yaml:"chat"`
	Assessment AssessmentRules `yaml:"assessment"`
	Mood       MoodRules       `yaml:"mood"`
	Engagement EngagementRules `yaml:"engagement"`
	Weights    FusionWeights   `yaml:"weights"`
	Guidance   Guidance        `yaml:"guidance"`

	// ReportAbove is the level a detection must exceed before a crisis
	// event is emitted.
	ReportAbove domain.RiskLevel `yaml:"report_above"`
	SafetyReply string           `yaml:"safety_reply"`
}

type ChatRules struct {
	Window  int             `yaml:"window"`
	Buckets []PatternBucket `yaml:"buckets"`
}

// PatternBucket is one severity group of the pattern library.
type PatternBucket struct {
	Level      domain.RiskLevel `yaml:"level"`
	Confidence float64          `yaml:"confidence"`
	Indicator  string           `yaml:"indicator"`
	Patterns   []string         `yaml:"patterns"`
}

type AssessmentRules struct {
	Recent                  int                  `yaml:"recent"`
	Categories              []AssessmentCategory `yaml:"categories"`
	DeteriorationDelta      float64              `yaml:"deterioration_delta"`
	DeteriorationLevel      domain.RiskLevel     `yaml:"deterioration_level"`
	DeteriorationConfidence float64              `yaml:"deterioration_confidence"`
}

// AssessmentCategory groups assessment types by a case-insensitive
// substring of their label.
type AssessmentCategory struct {
	Name      string     `yaml:"name"`
	Match     []string   `yaml:"match"`
	CutPoints []CutPoint `yaml:"cut_points"`
}

type CutPoint struct {
	MinScore   float64          `yaml:"min_score"`
	Level      domain.RiskLevel `yaml:"level"`
	Confidence float64          `yaml:"confidence"`
}

type MoodRules struct {
	Window             int              `yaml:"window"`
	Negative           []string         `yaml:"negative"`
	ModerateCount      int              `yaml:"moderate_count"`
	ModerateConfidence float64          `yaml:"moderate_confidence"`
	LowCount           int              `yaml:"low_count"`
	LowConfidence      float64          `yaml:"low_confidence"`
	Positive           []string         `yaml:"positive"`
	DropNegative       []string         `yaml:"drop_negative"`
	DropLevel          domain.RiskLevel `yaml:"drop_level"`
	DropConfidence     float64          `yaml:"drop_confidence"`
}

type EngagementRules struct {
	MinRecords                 int     `yaml:"min_records"`
	Window                     int     `yaml:"window"`
	CompletionRateBelow        float64 `yaml:"completion_rate_below"`
	DisengagementConfidence    float64 `yaml:"disengagement_confidence"`
	MinRated                   int     `yaml:"min_rated"`
	EffectivenessBelow         float64 `yaml:"effectiveness_below"`
	LowEffectivenessConfidence float64 `yaml:"low_effectiveness_confidence"`
}

// FusionWeights damp each analyzer's confidence before fusion.
type FusionWeights struct {
	Chat       float64 `yaml:"chat"`
	Assessment float64 `yaml:"assessment"`
	Mood       float64 `yaml:"mood"`
	Engagement float64 `yaml:"engagement"`
}

func DefaultWeights() FusionWeights {
	return FusionWeights{
		Chat:       1.0,
		Assessment: 0.8,
		Mood:       0.7,
		Engagement: 0.6,
	}
}

// Guidance maps a level name to the supportive strings returned with it.
type Guidance map[string][]string

// For returns a copy of the guidance for level, empty when none is configured.
func (g Guidance) For(level domain.RiskLevel) []string {
	src := g[level.String()]
	if len(src) == 0 {
		return []string{}
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}

var emergencyGuidance = []string{
	"Contact emergency services or a crisis line right away (call or text 988 in the US).",
	"Reach out to your emergency contact or someone you trust and tell them how you are feeling.",
	"Stay somewhere safe and move away from anything you could use to hurt yourself.",
}

func DefaultGuidance() Guidance {
	return Guidance{
		"CRITICAL": emergencyGuidance,
		"HIGH":     emergencyGuidance,
		"MODERATE": {
			"Consider contacting a mental health professional or your doctor soon.",
			"Let someone you trust know that you are having a hard time.",
		},
		"LOW": {
			"Try a short grounding exercise such as 5-4-3-2-1.",
			"Keep tracking your mood so you can notice changes early.",
		},
		"NONE": {
			"Keep up the routines that support your wellbeing.",
			"Check in with yourself regularly.",
		},
	}
}

const defaultSafetyReply = "It sounds like you are carrying something really heavy right now, and you do not have to face it alone. " +
	"If you are in danger or thinking about ending your life, please call or text 988 (US) or your local emergency number now."

func DefaultRules() Rules {
	return Rules{
		Chat: ChatRules{
			Window: 10,
			Buckets: []PatternBucket{
				{
					Level:      domain.RiskCritical,
					Confidence: 1.0,
					Indicator:  "Critical: language indicating intent to self-harm or end life",
					Patterns: []string{
						`\bkill(ing)? myself\b`,
						`\bend (it all|my life)\b`,
						`\bsuicid(e|al)\b`,
						`\bwant(ed)? to die\b`,
						`\bbetter off dead\b`,
						`\b(hurt|harm|cut)(ing)? myself\b`,
						`\bself[- ]harm`,
						`\bno reason to live\b`,
						`\btake my (own )?life\b`,
						`\bdon'?t want to (be alive|live|wake up)\b`,
					},
				},
				{
					Level:      domain.RiskHigh,
					Confidence: 0.85,
					Indicator:  "High: hopelessness or giving-up language",
					Patterns: []string{
						`\bgiving up\b`,
						`\bgive up on (everything|life)\b`,
						`\bcan'?t go on\b`,
						`\bhopeless\b`,
						`\bnothing matters\b`,
						`\bno point (in|to) (anything|living|trying)\b`,
						`\bcan'?t take (it|this) anymore\b`,
						`\bworthless\b`,
						`\b(i'?m|i am) a burden\b`,
						`\btrapped\b`,
					},
				},
				{
					Level:      domain.RiskModerate,
					Confidence: 0.7,
					Indicator:  "Moderate: acute distress language",
					Patterns: []string{
						`\boverwhelmed\b`,
						`\bcan'?t cope\b`,
						`\bfalling apart\b`,
						`\bpanic attacks?\b`,
						`\bcan'?t stop crying\b`,
						`\bso alone\b`,
						`\bbreaking down\b`,
						`\bcan'?t (sleep|eat) anymore\b`,
					},
				},
				{
					Level:      domain.RiskLow,
					Confidence: 0.5,
					Indicator:  "Low: distress with coping language",
					Patterns: []string{
						`\bstressed\b`,
						`\banxious\b`,
						`\bworried\b`,
						`\bsad\b`,
						`\bstruggling\b`,
						`\bfeeling (down|low)\b`,
						`\brough (day|week)\b`,
						`\bexhausted\b`,
					},
				},
			},
		},
		Assessment: AssessmentRules{
			Recent: 3,
			Categories: []AssessmentCategory{
				{
					Name:  "depression",
					Match: []string{"depress"},
					CutPoints: []CutPoint{
						{MinScore: 80, Level: domain.RiskHigh, Confidence: 0.9},
						{MinScore: 60, Level: domain.RiskModerate, Confidence: 0.75},
					},
				},
				{
					Name:      "anxiety",
					Match:     []string{"anxi"},
					CutPoints: []CutPoint{{MinScore: 75, Level: domain.RiskModerate, Confidence: 0.8}},
				},
				{
					Name:      "trauma",
					Match:     []string{"trauma", "ptsd"},
					CutPoints: []CutPoint{{MinScore: 75, Level: domain.RiskModerate, Confidence: 0.8}},
				},
			},
			DeteriorationDelta:      20,
			DeteriorationLevel:      domain.RiskModerate,
			DeteriorationConfidence: 0.7,
		},
		Mood: MoodRules{
			Window:             7,
			Negative:           []string{"struggling", "anxious", "low", "overwhelmed"},
			ModerateCount:      5,
			ModerateConfidence: 0.7,
			LowCount:           3,
			LowConfidence:      0.6,
			Positive:           []string{"great", "good", "okay", "calm"},
			DropNegative:       []string{"struggling", "anxious", "overwhelmed"},
			DropLevel:          domain.RiskLow,
			DropConfidence:     0.65,
		},
		Engagement: EngagementRules{
			MinRecords:                 3,
			Window:                     5,
			CompletionRateBelow:        0.3,
			DisengagementConfidence:    0.5,
			MinRated:                   2,
			EffectivenessBelow:         3,
			LowEffectivenessConfidence: 0.55,
		},
		Weights:     DefaultWeights(),
		Guidance:    DefaultGuidance(),
		ReportAbove: domain.RiskLow,
		SafetyReply: defaultSafetyReply,
	}
}

// LoadRules reads a YAML rules file over the defaults. Keys absent from
// the file keep their default values; lists present in the file replace
// the default list entirely.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	if path == "" {
		return rules, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("reading rules file: %w", err)
	}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return Rules{}, fmt.Errorf("parsing rules file: %w", err)
	}
	if err := rules.Validate(); err != nil {
		return Rules{}, fmt.Errorf("invalid rules file %s: %w", path, err)
	}
	return rules, nil
}

// Validate reports every inconsistency in the rules at once.
func (r Rules) Validate() error {
	var errs []error
	checkUnit := func(name string, v float64) {
		if v < 0 || v > 1 {
			errs = append(errs, fmt.Errorf("%s must be within [0,1], got %v", name, v))
		}
	}

	if r.Chat.Window <= 0 {
		errs = append(errs, errors.New("chat.window must be > 0"))
	}
	if len(r.Chat.Buckets) == 0 {
		errs = append(errs, errors.New("chat.buckets must not be empty"))
	}
	for i, b := range r.Chat.Buckets {
		checkUnit(fmt.Sprintf("chat.buckets[%d].confidence", i), b.Confidence)
		if len(b.Patterns) == 0 {
			errs = append(errs, fmt.Errorf("chat.buckets[%d] has no patterns", i))
		}
		for _, p := range b.Patterns {
			if _, err := regexp.Compile(p); err != nil {
				errs = append(errs, fmt.Errorf("chat.buckets[%d] pattern %q: %w", i, p, err))
			}
		}
	}

	if r.Assessment.Recent <= 0 {
		errs = append(errs, errors.New("assessment.recent must be > 0"))
	}
	for _, c := range r.Assessment.Categories {
		if len(c.Match) == 0 {
			errs = append(errs, fmt.Errorf("assessment category %q has no match terms", c.Name))
		}
		for _, cp := range c.CutPoints {
			checkUnit(fmt.Sprintf("assessment category %q cut confidence", c.Name), cp.Confidence)
		}
	}
	checkUnit("assessment.deterioration_confidence", r.Assessment.DeteriorationConfidence)

	if r.Mood.Window <= 0 {
		errs = append(errs, errors.New("mood.window must be > 0"))
	}
	checkUnit("mood.moderate_confidence", r.Mood.ModerateConfidence)
	checkUnit("mood.low_confidence", r.Mood.LowConfidence)
	checkUnit("mood.drop_confidence", r.Mood.DropConfidence)

	if r.Engagement.Window <= 0 {
		errs = append(errs, errors.New("engagement.window must be > 0"))
	}
	checkUnit("engagement.disengagement_confidence", r.Engagement.DisengagementConfidence)
	checkUnit("engagement.low_effectiveness_confidence", r.Engagement.LowEffectivenessConfidence)

	checkUnit("weights.chat", r.Weights.Chat)
	checkUnit("weights.assessment", r.Weights.Assessment)
	checkUnit("weights.mood", r.Weights.Mood)
	checkUnit("weights.engagement", r.Weights.Engagement)

	return errors.Join(errs...)
}
