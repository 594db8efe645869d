package extraction

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hankh95/clinical-bdd-creator-sub001/internal/core/common"
	"github.com/hankh95/clinical-bdd-creator-sub001/internal/core/model"
)

// WindowScope selects how far apart two concept mentions may sit and still
// be considered for a relationship.
type WindowScope string

const (
	WindowSentence WindowScope = "sentence"
	WindowToken    WindowScope = "token"
)

// Extractor turns RAW_TEXT context nodes into STRUCTURED_KNOWLEDGE concept
// and relationship nodes via deterministic lexical pattern matching.
type Extractor struct {
	Vocabulary  *Vocabulary
	Window      WindowScope
	TokenWindow int
}

func NewExtractor(vocab *Vocabulary) *Extractor {
	if vocab == nil {
		vocab = NewVocabulary(nil)
	}
	return &Extractor{
		Vocabulary:  vocab,
		Window:      WindowSentence,
		TokenWindow: 20,
	}
}

// measureRe captures an optional comparator, a numeric value and an
// optional unit following a measurement mention, e.g. "> 7.0%".
var measureRe = regexp.MustCompile(`^[\s:,]*(?:of|is|was|remains)?\s*(>=|<=|>|<|≥|≤|above|below|over|under|at least|at most|greater than|less than|exceeds)?\s*([0-9]+(?:\.[0-9]+)?)\s*(%|mmhg|mg/dl|mmol/l|meq/l|bpm|ms|kg/m2|kg/m²|mg|ml)?`)

var operatorWords = map[string]string{
	"≥": ">=", "at least": ">=",
	"≤": "<=", "at most": "<=",
	"above": ">", "over": ">", "greater than": ">", "exceeds": ">",
	"below": "<", "under": "<", "less than": "<",
}

// ExtractConcepts scans the context node's text for the four concept
// categories. Each mention becomes its own node; callers dedupe by
// (name, type) afterwards. Empty or unrecognizable text yields nil.
func (e *Extractor) ExtractConcepts(ctxNode *model.GraphNode) []model.GraphNode {
	text := ctxNode.Text
	if strings.TrimSpace(text) == "" {
		return nil
	}
	lower := strings.ToLower(text)

	var nodes []model.GraphNode
	var taken []common.Span

	emit := func(name string, ct model.ConceptType, conf float64, start, end int) {
		for _, sp := range taken {
			if start < sp.End && end > sp.Start {
				return // covered by a longer, earlier match
			}
		}
		taken = append(taken, common.Span{Start: start, End: end})

		concept := &model.ConceptContent{Name: name, Type: ct}
		if ct == model.ConceptMeasurement {
			// A measurement without a parseable number stays a valid,
			// valueless concept.
			if m := measureRe.FindStringSubmatch(lower[end:]); m != nil {
				if v, err := strconv.ParseFloat(m[2], 64); err == nil {
					concept.Value = &v
					concept.Operator = canonicalOperator(m[1])
					concept.Unit = m[3]
				}
			}
		}
		nodes = append(nodes, model.GraphNode{
			ID:         uuid.New().String(),
			Layer:      model.LayerStructuredKnowledge,
			Type:       model.NodeConcept,
			Confidence: conf,
			Concept:    concept,
			Metadata: model.Metadata{
				SourceDoc:   ctxNode.Metadata.SourceDoc,
				SpanStart:   start,
				SpanEnd:     end,
				DerivedFrom: []string{ctxNode.ID},
				CreatedAt:   time.Now().UTC(),
			},
		})
	}

	// Exact vocabulary terms, longest first per category.
	for _, ct := range []model.ConceptType{
		model.ConceptCondition, model.ConceptMedication,
		model.ConceptMeasurement, model.ConceptAction,
	} {
		for _, term := range e.Vocabulary.terms[ct] {
			for _, start := range wordIndexes(lower, term) {
				emit(term, ct, exactMatchConfidence, start, start+len(term))
			}
		}
	}

	// Suffix heuristics over whole words the exact pass did not claim.
	for ct, suffixes := range e.Vocabulary.suffixes {
		for _, w := range wordSpans(lower) {
			word := lower[w.Start:w.End]
			for _, sfx := range suffixes {
				if len(word) > len(sfx)+2 && strings.HasSuffix(word, sfx) {
					emit(word, ct, heuristicMatchConfidence, w.Start, w.End)
					break
				}
			}
		}
	}

	return nodes
}

// ExtractRelationships classifies links between concept mentions that
// co-occur within the configured window. No recognized connector means no
// edge; there is no generic fallback type.
func (e *Extractor) ExtractRelationships(ctxNode *model.GraphNode, concepts []model.GraphNode) []model.GraphNode {
	text := ctxNode.Text
	if strings.TrimSpace(text) == "" || len(concepts) == 0 {
		return nil
	}
	lower := strings.ToLower(text)
	mentions := locateMentions(lower, concepts)

	var edges []model.GraphNode
	seen := make(map[string]bool)

	emit := func(src, tgt *model.GraphNode, rt model.RelationType, conf float64, evidence string) {
		key := src.ID + "|" + tgt.ID + "|" + string(rt)
		if seen[key] {
			return
		}
		seen[key] = true
		edges = append(edges, model.GraphNode{
			ID:         uuid.New().String(),
			Layer:      model.LayerStructuredKnowledge,
			Type:       model.NodeRelationship,
			Confidence: conf,
			Relation: &model.RelationshipContent{
				SourceConcept: src.ID,
				TargetConcept: tgt.ID,
				Type:          rt,
				EvidenceText:  evidence,
			},
			Metadata: model.Metadata{
				SourceDoc:   ctxNode.Metadata.SourceDoc,
				DerivedFrom: []string{src.ID, tgt.ID, ctxNode.ID},
				CreatedAt:   time.Now().UTC(),
			},
		})
	}

	if e.Window == WindowToken {
		e.extractTokenWindow(text, lower, mentions, emit)
		return edges
	}

	for _, sp := range common.SplitSentenceSpans(text) {
		var inSentence []mention
		for _, m := range mentions {
			if m.span.Start >= sp.Start && m.span.End <= sp.End {
				inSentence = append(inSentence, m)
			}
		}
		sentence := strings.TrimSpace(text[sp.Start:sp.End])
		e.classifyPairs(lower, sentence, inSentence, emit)
	}
	return edges
}

type emitFunc func(src, tgt *model.GraphNode, rt model.RelationType, conf float64, evidence string)

func (e *Extractor) classifyPairs(lower, sentence string, mentions []mention, emit emitFunc) {
	linked := make(map[string]bool)
	pairKey := func(a, b *model.GraphNode) string { return a.ID + "|" + b.ID }

	for i := 0; i < len(mentions); i++ {
		for j := i + 1; j < len(mentions); j++ {
			a, b := mentions[i], mentions[j]
			// Overlapping mentions (one name inside another) carry no gap
			// to scan for a connector.
			if a.node.ID == b.node.ID || b.span.Start < a.span.End {
				continue
			}
			between := lower[a.span.End:b.span.Start]
			for _, c := range connectors {
				if !strings.Contains(between, c.Phrase) {
					continue
				}
				src, tgt := a.node, b.node
				if c.Reverse {
					src, tgt = tgt, src
				}
				emit(src, tgt, c.Type, c.Confidence, sentence)
				linked[pairKey(a.node, b.node)] = true
				break
			}
		}
	}

	// Recommendation fallback: "metformin should be initiated" links the
	// recommended medication/action to each co-occurring trigger concept.
	sentenceLower := strings.ToLower(sentence)
	recommended := false
	for _, p := range recommendationPhrases {
		if strings.Contains(sentenceLower, p) {
			recommended = true
			break
		}
	}
	if !recommended {
		return
	}
	for _, m := range mentions {
		mt := m.node.Concept.Type
		if mt != model.ConceptMedication && mt != model.ConceptAction {
			continue
		}
		for _, c := range mentions {
			ct := c.node.Concept.Type
			if ct != model.ConceptCondition && ct != model.ConceptMeasurement {
				continue
			}
			if linked[pairKey(m.node, c.node)] || linked[pairKey(c.node, m.node)] {
				continue
			}
			emit(m.node, c.node, model.RelTreats, recommendationConfidence, sentence)
		}
	}
}

func (e *Extractor) extractTokenWindow(text, lower string, mentions []mention, emit emitFunc) {
	for i := 0; i < len(mentions); i++ {
		for j := i + 1; j < len(mentions); j++ {
			a, b := mentions[i], mentions[j]
			if a.node.ID == b.node.ID || b.span.Start < a.span.End {
				continue
			}
			between := lower[a.span.End:b.span.Start]
			if len(strings.Fields(between)) > e.TokenWindow {
				break
			}
			evidence := strings.TrimSpace(text[a.span.Start:b.span.End])
			for _, c := range connectors {
				if !strings.Contains(between, c.Phrase) {
					continue
				}
				src, tgt := a.node, b.node
				if c.Reverse {
					src, tgt = tgt, src
				}
				emit(src, tgt, c.Type, c.Confidence, evidence)
				break
			}
		}
	}
}

type mention struct {
	node *model.GraphNode
	span common.Span
}

// locateMentions finds every occurrence of each concept's name, ordered by
// position. Concepts may have merged to one node per (name, type), so a
// node can appear at several positions.
func locateMentions(lower string, concepts []model.GraphNode) []mention {
	var mentions []mention
	for i := range concepts {
		n := &concepts[i]
		if n.Concept == nil {
			continue
		}
		for _, start := range wordIndexes(lower, strings.ToLower(n.Concept.Name)) {
			mentions = append(mentions, mention{
				node: n,
				span: common.Span{Start: start, End: start + len(n.Concept.Name)},
			})
		}
	}
	// Insertion sort by position; mention counts are small.
	for i := 1; i < len(mentions); i++ {
		for j := i; j > 0 && mentions[j].span.Start < mentions[j-1].span.Start; j-- {
			mentions[j], mentions[j-1] = mentions[j-1], mentions[j]
		}
	}
	return mentions
}

// wordIndexes returns the start offsets of whole-word occurrences of term.
func wordIndexes(lower, term string) []int {
	if term == "" {
		return nil
	}
	var indexes []int
	for from := 0; ; {
		i := strings.Index(lower[from:], term)
		if i < 0 {
			break
		}
		start := from + i
		end := start + len(term)
		if boundedWord(lower, start, end) {
			indexes = append(indexes, start)
		}
		from = start + 1
	}
	return indexes
}

func boundedWord(s string, start, end int) bool {
	if start > 0 && isWordChar(s[start-1]) {
		return false
	}
	if end < len(s) && isWordChar(s[end]) {
		return false
	}
	return true
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

// wordSpans tokenizes into letter runs, for suffix heuristics.
func wordSpans(lower string) []common.Span {
	var spans []common.Span
	start := -1
	for i := 0; i <= len(lower); i++ {
		inWord := i < len(lower) && lower[i] >= 'a' && lower[i] <= 'z'
		if inWord && start < 0 {
			start = i
		}
		if !inWord && start >= 0 {
			spans = append(spans, common.Span{Start: start, End: i})
			start = -1
		}
	}
	return spans
}

func canonicalOperator(op string) string {
	if mapped, ok := operatorWords[op]; ok {
		return mapped
	}
	return op
}
