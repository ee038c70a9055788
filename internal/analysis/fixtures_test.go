package analysis

type staticRef struct {
	additives []AdditiveRecord
	ultra     []UltraProcessedIngredient
	version   string
}

func (r *staticRef) Additives() []AdditiveRecord               { return r.additives }
func (r *staticRef) UltraProcessed() []UltraProcessedIngredient { return r.ultra }
func (r *staticRef) Version() string                            { return r.version }

func (r *staticRef) Lookup(key string) (AdditiveRecord, bool) {
	code := NormalizeENumber(key)
	for _, a := range r.additives {
		if code != "" && NormalizeENumber(a.ENumber) == code {
			return a, true
		}
	}
	return AdditiveRecord{}, false
}

func testReference() *staticRef {
	return &staticRef{
		version: "test-1",
		additives: []AdditiveRecord{
			{Name: "Sodium sulphite", ENumber: "E221", Tier: TierModerate, SulphiteAllergen: true, Origin: OriginSynthetic, Known: true},
			{Name: "Monosodium glutamate", ENumber: "E621", Synonyms: []string{"msg"}, Tier: TierModerate, Origin: OriginSynthetic, Known: true},
			{Name: "Sodium nitrite", ENumber: "E250", Tier: TierHigh, Origin: OriginSynthetic, Known: true,
				ShortDescription: "Preservative used in cured meats."},
			{Name: "Lecithin", ENumber: "E322", Synonyms: []string{"soy lecithin"}, Tier: TierNone, Origin: OriginNatural, Known: true},
			{Name: "Ascorbic acid", ENumber: "E300", Tier: TierNone, IsVitaminOrMineral: true, Known: true},
			{Name: "Tartrazine", ENumber: "E102", Tier: TierHigh, ChildWarning: true, Origin: OriginSynthetic, Known: true,
				FullDescription: "Synthetic lemon yellow azo dye. Banned in some countries."},
		},
		ultra: []UltraProcessedIngredient{
			{Name: "Maltodextrin", Category: "Sugar", NovaGroup: 4, ProcessingPenalty: 6, Concerns: "Rapidly absorbed; Spikes blood glucose"},
			{Name: "Modified starch", NovaGroup: 3, ProcessingPenalty: 5},
			{Name: "Glucose syrup", NovaGroup: 3, ProcessingPenalty: 3},
			{Name: "Yeast extract", NovaGroup: 3, ProcessingPenalty: 1},
		},
	}
}
