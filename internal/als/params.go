package als

// Per-category parameter vocabularies. A raw element name outside the
// category's vocabulary stays readable but is keyed ParamOpaque, so unknown
// schema additions never break parsing.
var paramVocab = map[DeviceCategory]map[string]ParamKey{
	CategoryCompressor: {
		"Ratio":     ParamRatio,
		"Threshold": ParamThreshold,
		"Attack":    ParamAttack,
		"Release":   ParamRelease,
		"Gain":      ParamGain,
		"DryWet":    ParamDryWet,
	},
	CategoryLimiter: {
		"Gain":    ParamGain,
		"Ceiling": ParamCeiling,
		"Release": ParamRelease,
	},
	CategoryEQ: {
		"Gain": ParamGain,
		"Freq": ParamFreq,
		"Q":    ParamQ,
	},
	CategorySaturator: {
		"Drive":  ParamDrive,
		"DryWet": ParamDryWet,
	},
	CategoryReverb: {
		"DecayTime": ParamDecay,
		"PreDelay":  ParamPreDelay,
		"DryWet":    ParamDryWet,
	},
	CategoryDelay: {
		"DelayTime": ParamTime,
		"Time":      ParamTime,
		"Feedback":  ParamFeedback,
		"DryWet":    ParamDryWet,
	},
	CategoryFilter: {
		"Freq":   ParamFreq,
		"Cutoff": ParamFreq,
		"Res":    ParamQ,
		"DryWet": ParamDryWet,
	},
	CategoryModulation: {
		"Amount":   ParamDrive,
		"Rate":     ParamTime,
		"Feedback": ParamFeedback,
		"DryWet":   ParamDryWet,
	},
	CategoryUtility: {
		"Gain": ParamGain,
	},
}

// paramKeyFor resolves a raw element name against the category vocabulary.
func paramKeyFor(cat DeviceCategory, name string) ParamKey {
	if vocab, ok := paramVocab[cat]; ok {
		if key, ok := vocab[name]; ok {
			return key
		}
	}
	return ParamOpaque
}
