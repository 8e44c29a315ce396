package domain

// TargetBlock is a candidate block selected by retrieval, carrying the
// hash an edit proposal must echo back as its expected hash.
type TargetBlock struct {
	// ID is the block identifier.
	ID string `json:"id"`

	// Text is the current block content.
	Text string `json:"text"`

	// Hash is the current content hash.
	Hash string `json:"hash"`
}

// RetrievalStats counts blocks at each stage of the pipeline.
type RetrievalStats struct {
	// Total is the document's block count.
	Total int `json:"total"`

	// Matched is the count after the regex prefilter.
	Matched int `json:"matched"`

	// Returned is the count after ranking and truncation.
	Returned int `json:"returned"`
}

// RetrievalResult is the output of target selection for an edit intent.
type RetrievalResult struct {
	// DocID is the document that was searched.
	DocID string `json:"docId"`

	// BaseVersion is the document version the blocks were read at.
	// A batch built from this result should carry it.
	BaseVersion string `json:"baseVersion"`

	// Intent is the edit intent that drove selection.
	Intent EditIntent `json:"intent"`

	// Blocks are the selected candidates in rank order.
	Blocks []TargetBlock `json:"blocks"`

	// Outline is auxiliary story context for the document, when the
	// outline provider has any. Not part of the block set.
	Outline *Outline `json:"outline,omitempty"`

	// Notes traces counts at each filtering stage, for debugging and
	// test assertions.
	Notes []string `json:"notes,omitempty"`

	// Stats summarises the pipeline.
	Stats RetrievalStats `json:"stats"`
}

// Outline is story-level context attached to retrieval results.
// All fields are optional.
type Outline struct {
	// Goal is what the viewpoint character wants in this scene.
	Goal string `json:"goal,omitempty"`

	// Conflict is what stands in the way.
	Conflict string `json:"conflict,omitempty"`

	// Outcome is how the scene resolves.
	Outcome string `json:"outcome,omitempty"`

	// Clock is the ticking-clock pressure, if any.
	Clock string `json:"clock,omitempty"`

	// Crucible is why the characters cannot simply walk away.
	Crucible string `json:"crucible,omitempty"`
}

// Empty reports whether the outline carries no context at all.
func (o *Outline) Empty() bool {
	return o == nil || (o.Goal == "" && o.Conflict == "" && o.Outcome == "" &&
		o.Clock == "" && o.Crucible == "")
}
