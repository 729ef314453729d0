package match

// Ratcliff/Obershelp similarity over runes: repeatedly find the longest
// matching block, then recurse on the pieces to the left and right of it.
// The score is 2*M/T where M is the total number of matched runes and T the
// combined length. Equivalent to Python's difflib.SequenceMatcher ratio,
// which the matching threshold was calibrated against.

type block struct {
	aLo, aHi int
	bLo, bHi int
}

// Similarity returns the similarity of two strings in [0,1]. Comparison is
// exact (no case folding); callers fold beforehand.
func Similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}

	// Index positions of each rune in b for the longest-match scan.
	b2j := make(map[rune][]int, len(rb))
	for j, r := range rb {
		b2j[r] = append(b2j[r], j)
	}

	matched := 0
	stack := []block{{0, len(ra), 0, len(rb)}}
	for len(stack) > 0 {
		blk := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		i, j, size := longestMatch(ra, b2j, blk)
		if size == 0 {
			continue
		}
		matched += size
		stack = append(stack,
			block{blk.aLo, i, blk.bLo, j},
			block{i + size, blk.aHi, j + size, blk.bHi},
		)
	}

	return 2 * float64(matched) / float64(total)
}

// longestMatch finds the longest block ra[i:i+k] == rb[j:j+k] with
// aLo<=i<i+k<=aHi and bLo<=j<j+k<=bHi, preferring the earliest such block.
func longestMatch(ra []rune, b2j map[rune][]int, blk block) (bestI, bestJ, bestSize int) {
	bestI, bestJ = blk.aLo, blk.bLo

	// j2len[j] = length of the longest match ending at ra[i], rb[j].
	j2len := make(map[int]int)
	for i := blk.aLo; i < blk.aHi; i++ {
		newJ2len := make(map[int]int)
		for _, j := range b2j[ra[i]] {
			if j < blk.bLo {
				continue
			}
			if j >= blk.bHi {
				break
			}
			k := j2len[j-1] + 1
			newJ2len[j] = k
			if k > bestSize {
				bestI, bestJ, bestSize = i-k+1, j-k+1, k
			}
		}
		j2len = newJ2len
	}
	return bestI, bestJ, bestSize
}
