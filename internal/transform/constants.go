package transform

import "strings"

// Lemma markers.
const (
	AuxiliaryMarker = "%aux"
	PassiveMarker   = "%passiv"
	ReflexiveLemma  = "#refl"
	PrefixSeparator = "#"
	AltSeparator    = "|"
	TruncSeparator  = "%"
	PassiveLemma    = "werden"
)

// STTS tags and tag prefixes.
const (
	AuxiliaryPrefix   = "VA"
	ModalPrefix       = "VM"
	VerbPrefix        = "V"
	PunctuationPrefix = "$"

	ParticipleTag        = "VVPP"
	ZuInfinitiveTag      = "VVIZU"
	SeparableParticleTag = "PTKVZ"
	NounTag              = "NN"
	NamedEntityTag       = "NE"
	TruncatedTag         = "TRUNC"
	ReflexivePronounTag  = "PRF"
	ArticleTag           = "ART"
	SubstRelPronounTag   = "PRELS"
	AttrRelPronounTag    = "PRELAT"
	AttrPossPronounTag   = "PPOSAT"
	SubstPossPronounTag  = "PPOSS"
	PersonalPronounTag   = "PPER"
	ForeignWordTag       = "FM"
	NonWordTag           = "XY"
)

// Dependency relations.
const (
	AuxiliaryRelation      = "AUX"
	CoordinationRelation   = "KON"
	ConjComplementRelation = "CJ"
	AdverbialRelation      = "ADV"
	PunctuationRelation    = "-PUNCT-"
)

var separableVerbTags = map[string]bool{
	"VVFIN": true,
	"VVIMP": true,
	"VAFIN": true,
	"VAIMP": true,
}

var infinitiveOrParticipleTags = map[string]bool{
	"VVINF": true,
	"VAINF": true,
	"VMINF": true,
	"VVPP":  true,
	"VAPP":  true,
	"VMPP":  true,
}

func isVerb(tag string) bool {
	return strings.HasPrefix(tag, VerbPrefix)
}

func isSeparableVerb(tag string) bool {
	return separableVerbTags[tag]
}

func isAuxOrModal(tag string) bool {
	return strings.HasPrefix(tag, AuxiliaryPrefix) || strings.HasPrefix(tag, ModalPrefix)
}
