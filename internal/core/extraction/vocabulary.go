package extraction

import (
	"sort"
	"strings"

	"github.com/hankh95/clinical-bdd-creator-sub001/internal/core/model"
)

// Match confidences by pattern specificity. An exact vocabulary hit is
// trusted more than a suffix heuristic.
const (
	exactMatchConfidence     = 0.9
	heuristicMatchConfidence = 0.7
)

// Vocabulary is the fixed lexical pattern set driving concept extraction.
// Extraction is deliberately deterministic: the same text always yields the
// same concepts, which is what makes assertion-based fidelity scoring
// meaningful.
type Vocabulary struct {
	terms    map[model.ConceptType][]string
	suffixes map[model.ConceptType][]string
}

var defaultTerms = map[model.ConceptType][]string{
	model.ConceptCondition: {
		"type 2 diabetes", "type 1 diabetes", "diabetes", "hypertension",
		"heart failure", "atrial fibrillation", "myocardial infarction",
		"coronary artery disease", "stroke", "chronic kidney disease",
		"hyperlipidemia", "angina", "obesity", "hypoglycemia",
		"hyperkalemia", "bradycardia", "bleeding", "asthma", "copd",
		"pneumonia", "sepsis", "anemia", "deep vein thrombosis",
		"pulmonary embolism", "thromboembolism", "renal impairment",
	},
	model.ConceptMedication: {
		"metformin", "insulin", "aspirin", "warfarin", "apixaban",
		"rivaroxaban", "atorvastatin", "simvastatin", "statin",
		"lisinopril", "enalapril", "ramipril", "ace inhibitor",
		"metoprolol", "bisoprolol", "carvedilol", "beta blocker",
		"amlodipine", "furosemide", "spironolactone", "clopidogrel",
		"amiodarone", "digoxin", "heparin", "anticoagulant",
		"nitroglycerin", "sulfonylurea", "sglt2 inhibitor",
		"glp-1 receptor agonist",
	},
	model.ConceptMeasurement: {
		"hba1c", "systolic blood pressure", "diastolic blood pressure",
		"blood pressure", "ldl cholesterol", "cholesterol", "heart rate",
		"inr", "egfr", "creatinine", "potassium", "blood glucose",
		"fasting glucose", "bmi", "qt interval", "ejection fraction",
		"troponin",
	},
	model.ConceptAction: {
		"lifestyle modification", "dose adjustment", "dietary counseling",
		"follow-up", "monitoring", "titration", "cardioversion",
		"dialysis", "referral", "echocardiogram", "stress test", "ecg",
		"coronary angiography", "smoking cessation", "exercise program",
		"vaccination",
	},
}

// Suffix heuristics catch drug-class naming conventions the exact list
// misses. They only apply to whole words.
var defaultSuffixes = map[model.ConceptType][]string{
	model.ConceptMedication: {
		"pril", "olol", "statin", "sartan", "azole", "mycin", "cillin",
		"gliflozin", "glutide", "parin",
	},
	model.ConceptCondition: {
		"itis", "emia", "pathy",
	},
}

// NewVocabulary returns the default clinical vocabulary, optionally
// extended with extra exact terms per category.
func NewVocabulary(extra map[model.ConceptType][]string) *Vocabulary {
	v := &Vocabulary{
		terms:    make(map[model.ConceptType][]string),
		suffixes: make(map[model.ConceptType][]string),
	}
	for ct, ts := range defaultTerms {
		v.terms[ct] = append(v.terms[ct], ts...)
	}
	for ct, ts := range extra {
		for _, t := range ts {
			t = strings.ToLower(strings.TrimSpace(t))
			if t != "" {
				v.terms[ct] = append(v.terms[ct], t)
			}
		}
	}
	for ct, sfx := range defaultSuffixes {
		v.suffixes[ct] = append(v.suffixes[ct], sfx...)
	}
	// Longest terms first so "type 2 diabetes" wins over "diabetes".
	for ct := range v.terms {
		sort.SliceStable(v.terms[ct], func(i, j int) bool {
			return len(v.terms[ct][i]) > len(v.terms[ct][j])
		})
	}
	return v
}

// connector classifies the link between two concept mentions. Phrase
// matching happens on the text between the mentions; Reverse connectors
// point from the second mention back to the first ("X is treated with Y"
// means Y treats X).
type connector struct {
	Phrase     string
	Type       model.RelationType
	Confidence float64
	Reverse    bool
}

var connectors = []connector{
	{Phrase: "is a risk factor for", Type: model.RelRiskFactor, Confidence: 0.9},
	{Phrase: "increases the risk of", Type: model.RelRiskFactor, Confidence: 0.85},
	{Phrase: "predisposes to", Type: model.RelRiskFactor, Confidence: 0.8},

	{Phrase: "is contraindicated in", Type: model.RelContraindicates, Confidence: 0.9},
	{Phrase: "should not be used in", Type: model.RelContraindicates, Confidence: 0.85},
	{Phrase: "should be avoided in", Type: model.RelContraindicates, Confidence: 0.8},

	{Phrase: "is used to investigate", Type: model.RelInvestigates, Confidence: 0.85},
	{Phrase: "is used to assess", Type: model.RelInvestigates, Confidence: 0.8},
	{Phrase: "is used to evaluate", Type: model.RelInvestigates, Confidence: 0.8},
	{Phrase: "rules out", Type: model.RelInvestigates, Confidence: 0.75},
	{Phrase: "investigates", Type: model.RelInvestigates, Confidence: 0.9},

	{Phrase: "complicates", Type: model.RelComplicates, Confidence: 0.9},
	{Phrase: "exacerbates", Type: model.RelComplicates, Confidence: 0.8},
	{Phrase: "worsens", Type: model.RelComplicates, Confidence: 0.8},
	{Phrase: "is a complication of", Type: model.RelComplicates, Confidence: 0.85, Reverse: true},

	{Phrase: "requires monitoring of", Type: model.RelMonitors, Confidence: 0.85, Reverse: true},
	{Phrase: "is monitored with", Type: model.RelMonitors, Confidence: 0.85, Reverse: true},
	{Phrase: "monitors", Type: model.RelMonitors, Confidence: 0.9},
	{Phrase: "to monitor", Type: model.RelMonitors, Confidence: 0.8},

	{Phrase: "is treated with", Type: model.RelTreats, Confidence: 0.85, Reverse: true},
	{Phrase: "is managed with", Type: model.RelTreats, Confidence: 0.8, Reverse: true},
	{Phrase: "is indicated for", Type: model.RelTreats, Confidence: 0.85},
	{Phrase: "is recommended for", Type: model.RelTreats, Confidence: 0.85},
	{Phrase: "is first-line therapy for", Type: model.RelTreats, Confidence: 0.9},
	{Phrase: "treats", Type: model.RelTreats, Confidence: 0.9},
}

// recommendationPhrases mark a sentence as a therapy recommendation. When a
// medication or action co-occurs with a condition or measurement and no
// between-mention connector fired, the recommendation links them as treats.
var recommendationPhrases = []string{
	"should be initiated",
	"should be started",
	"should be prescribed",
	"should be offered",
	"should be considered",
	"is recommended",
	"initiate",
	"start",
}

const recommendationConfidence = 0.7
