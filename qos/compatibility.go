package qos

import (
	"regexp"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// Compatibility of offered (writer) and requested (reader) policies:
//
//	Reliability         offered.Kind >= requested.Kind
//	Durability          offered.Kind >= requested.Kind (VOLATILE < TRANSIENT_LOCAL < TRANSIENT < PERSISTENT)
//	Deadline            offered.Period <= requested.Period
//	LatencyBudget       offered.Duration <= requested.Duration
//	Liveliness          offered.Kind >= requested.Kind and offered.LeaseDuration <= requested.LeaseDuration
//	Ownership           offered.Kind == requested.Kind
//	DestinationOrder    offered.Kind >= requested.Kind
//	Presentation        offered.AccessScope >= requested.AccessScope, and coherent/ordered access
//	                    requested by the reader must be offered by the writer
//	DataRepresentation  the representation used by the writer is accepted by the reader

// ReliabilityCompatible checks reliability.
func ReliabilityCompatible(offered, requested Reliability) bool {
	return offered.Kind >= requested.Kind
}

// DurabilityCompatible checks durability.
func DurabilityCompatible(offered, requested Durability) bool {
	return offered.Kind >= requested.Kind
}

// DeadlineCompatible checks deadline.
func DeadlineCompatible(offered, requested Deadline) bool {
	return offered.Period.Compare(requested.Period) <= 0
}

// LatencyBudgetCompatible checks latency budget.
func LatencyBudgetCompatible(offered, requested LatencyBudget) bool {
	return offered.Duration.Compare(requested.Duration) <= 0
}

// LivelinessCompatible checks liveliness.
func LivelinessCompatible(offered, requested Liveliness) bool {
	return offered.Kind >= requested.Kind && offered.LeaseDuration.Compare(requested.LeaseDuration) <= 0
}

// OwnershipCompatible checks ownership.
func OwnershipCompatible(offered, requested Ownership) bool {
	return offered.Kind == requested.Kind
}

// DestinationOrderCompatible checks destination order.
func DestinationOrderCompatible(offered, requested DestinationOrder) bool {
	return offered.Kind >= requested.Kind
}

// PresentationCompatible checks presentation.
func PresentationCompatible(offered, requested Presentation) bool {
	if offered.AccessScope < requested.AccessScope {
		return false
	}
	if requested.CoherentAccess && !offered.CoherentAccess {
		return false
	}
	if requested.OrderedAccess && !offered.OrderedAccess {
		return false
	}
	return true
}

// DataRepresentationCompatible checks data representation.
// Empty lists mean XCDR.
func DataRepresentationCompatible(offered, requested DataRepresentation) bool {
	used := XCDR
	if len(offered.Value) > 0 {
		used = offered.Value[0]
	}
	if len(requested.Value) == 0 {
		return used == XCDR
	}
	return slices.Contains(requested.Value, used)
}

// PartitionsMatch checks if two partition policies share a partition.
// Empty policy means the default partition "". Names may contain fnmatch wildcards.
func PartitionsMatch(p1, p2 Partition) bool {
	names1 := partitionNames(p1)
	names2 := partitionNames(p2)
	return lo.SomeBy(names1, func(n1 string) bool {
		return lo.SomeBy(names2, func(n2 string) bool {
			return partitionNamesMatch(n1, n2)
		})
	})
}

func partitionNames(p Partition) []string {
	if len(p.Names) == 0 {
		return []string{""}
	}
	return p.Names
}

func partitionNamesMatch(n1, n2 string) bool {
	if n1 == n2 {
		return true
	}
	wild1 := isWildcard(n1)
	wild2 := isWildcard(n2)
	switch {
	case wild1 && wild2:
		return false
	case wild1:
		return wildcardMatch(n1, n2)
	case wild2:
		return wildcardMatch(n2, n1)
	default:
		return false
	}
}

// wildcardMatch matches name against fnmatch pattern. Wildcards match any character, '/' included.
func wildcardMatch(pattern, name string) bool {
	re, err := regexp.Compile(wildcardRegexp(pattern))
	return err == nil && re.MatchString(name)
}

func wildcardRegexp(pattern string) string {
	var sb strings.Builder
	sb.WriteString(`^(?s:`)
	for i := 0; i < len(pattern); i++ {
		switch pattern[i] {
		case '*':
			sb.WriteString(`.*`)
		case '?':
			sb.WriteString(`.`)
		case '[':
			end := classEnd(pattern, i)
			if end < 0 {
				sb.WriteString(`\[`)
				continue
			}
			sb.WriteString(classRegexp(pattern[i+1 : end]))
			i = end
		default:
			sb.WriteString(regexp.QuoteMeta(pattern[i : i+1]))
		}
	}
	sb.WriteString(`)$`)
	return sb.String()
}

// classEnd returns index of ']' closing the class opened at start, or -1.
// ']' right after the opening bracket or the negation belongs to the class.
func classEnd(pattern string, start int) int {
	i := start + 1
	if i < len(pattern) && (pattern[i] == '!' || pattern[i] == '^') {
		i++
	}
	if i < len(pattern) && pattern[i] == ']' {
		i++
	}
	for ; i < len(pattern); i++ {
		if pattern[i] == ']' {
			return i
		}
	}
	return -1
}

func classRegexp(class string) string {
	var sb strings.Builder
	sb.WriteString(`[`)
	if class != "" && (class[0] == '!' || class[0] == '^') {
		sb.WriteString(`^`)
		class = class[1:]
	}
	for i := range len(class) {
		switch c := class[i]; c {
		case '\\', '[', ']', '^':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		default:
			sb.WriteByte(c)
		}
	}
	sb.WriteString(`]`)
	return sb.String()
}

func isWildcard(name string) bool {
	return strings.ContainsAny(name, "*?[")
}
