package browse

import (
	"math"
	"math/rand"

	"github.com/projetproduits/storefront/internal/models"
)

// Blend interleaves the two catalogs position by position and finishes
// with the longer list's tail: homme[0], femme[0], homme[1], femme[1].
// Deterministic round-robin, not a shuffle; this is the "all" tab.
func Blend(homme, femme []models.Product) []models.Product {

	maxCount := len(homme)
	if len(femme) > maxCount {
		maxCount = len(femme)
	}

	mixed := make([]models.Product, 0, len(homme)+len(femme))

	for i := range maxCount {
		if i < len(homme) {
			p := homme[i]
			p.Gender = models.SegmentHomme.Gender()
			mixed = append(mixed, p)
		}

		if i < len(femme) {
			p := femme[i]
			p.Gender = models.SegmentFemme.Gender()
			mixed = append(mixed, p)
		}
	}

	return mixed
}

// Sample builds a per-storefront dashboard view: the whole home
// audience catalog plus a shuffled slice of the other audience sized
// at rate of its catalog (rounded up). The rand source is injected so
// tests can pin the draw; production reseeds on every load.
func Sample(own, other []models.Product, rate float64, rng *rand.Rand) []models.Product {

	if rate < 0 {
		rate = 0
	}

	count := int(math.Ceil(float64(len(other)) * rate))
	if count > len(other) {
		count = len(other)
	}

	shuffled := make([]models.Product, len(other))
	copy(shuffled, other)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	combined := make([]models.Product, 0, len(own)+count)
	combined = append(combined, own...)
	combined = append(combined, shuffled[:count]...)

	return combined
}
