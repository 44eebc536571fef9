// Copyright 2026 codedna contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package similarity

import "codedna/fingerprint"

// Churn reports how much changed between an older and a newer CodeDNA
// of the same artifact.
type Churn struct {
	AddedClasses   int `json:"added_classes"`
	RemovedClasses int `json:"removed_classes"`
	UnchangedClasses int `json:"unchanged_classes"`

	AddedMethods   int `json:"added_methods"`
	RemovedMethods int `json:"removed_methods"`

	AddedAPIReferences   int `json:"added_api_references"`
	RemovedAPIReferences int `json:"removed_api_references"`

	ChurnPercentage float64 `json:"churn_percentage"`
}

// ComputeChurn compares oldDNA to newDNA and reports the sets that
// changed. churn_percentage is 100 whenever the old fingerprint had no
// classes and no methods to change relative to (the "both empty" total
// case).
func ComputeChurn(oldDNA, newDNA *fingerprint.CodeDNA) Churn {
	addedClasses, removedClasses, unchangedClasses := diffCounts(oldDNA.Structure.ClassHashes, newDNA.Structure.ClassHashes)
	addedMethods, removedMethods, _ := diffCounts(oldDNA.APIFootprint.MethodSignatureHashes, newDNA.APIFootprint.MethodSignatureHashes)
	addedRefs, removedRefs, _ := diffCounts(oldDNA.APIFootprint.ExternalReferences, newDNA.APIFootprint.ExternalReferences)

	denom := len(oldDNA.Structure.ClassHashes) + len(oldDNA.APIFootprint.MethodSignatureHashes)
	var churnPct float64
	if denom == 0 {
		churnPct = 100
	} else {
		churnPct = float64(addedClasses+removedClasses+addedMethods+removedMethods) / float64(denom) * 100
	}

	return Churn{
		AddedClasses:         addedClasses,
		RemovedClasses:       removedClasses,
		UnchangedClasses:     unchangedClasses,
		AddedMethods:         addedMethods,
		RemovedMethods:       removedMethods,
		AddedAPIReferences:   addedRefs,
		RemovedAPIReferences: removedRefs,
		ChurnPercentage:      churnPct,
	}
}

// diffCounts compares two hash-string slices and reports how many
// entries were added (in newSet, not old), removed (in old, not new)
// and unchanged (in both).
func diffCounts(oldVals, newVals []string) (added, removed, unchanged int) {
	oldSet := toSet(oldVals)
	newSet := toSet(newVals)

	for v := range newSet {
		if _, ok := oldSet[v]; ok {
			unchanged++
		} else {
			added++
		}
	}
	for v := range oldSet {
		if _, ok := newSet[v]; !ok {
			removed++
		}
	}
	return added, removed, unchanged
}
