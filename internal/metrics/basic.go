package metrics

import (
	"strings"
	"unicode"
)

// Short names of the measurements fact producers contribute to. Configurations
// are free to declare other names; these are the ones the gatherer and the
// factory know how to fill.
const (
	AbstractClasses          = "ABSTRACT_CLASSES"
	AbstractInnerClasses     = "ABSTRACT_INNER_CLASSES"
	AbstractMethods          = "ABSTRACT_METHODS"
	Attributes               = "ATTRIBUTES"
	ClassNameCharacterCount  = "CLASS_NAME_CHARACTER_COUNT"
	ClassNameWordCount       = "CLASS_NAME_WORD_COUNT"
	ClassSloc                = "CLASS_SLOC"
	CyclomaticComplexity     = "VG"
	DeprecatedAttributes     = "DEPRECATED_ATTRIBUTES"
	DeprecatedClasses        = "DEPRECATED_CLASSES"
	DeprecatedMethods        = "DEPRECATED_METHODS"
	DepthOfInheritance       = "DEPTH_OF_INHERITANCE"
	FinalAttributes          = "FINAL_ATTRIBUTES"
	Imports                  = "IMPORTS"
	FinalClasses             = "FINAL_CLASSES"
	FinalInnerClasses        = "FINAL_INNER_CLASSES"
	FinalMethods             = "FINAL_METHODS"
	GroupNameCharacterCount  = "GROUP_NAME_CHARACTER_COUNT"
	GroupNameWordCount       = "GROUP_NAME_WORD_COUNT"
	InnerClasses             = "INNER_CLASSES"
	Interfaces               = "INTERFACES"
	LocalVariables           = "LOCAL_VARIABLES"
	MethodNameCharacterCount = "METHOD_NAME_CHARACTER_COUNT"
	MethodNameWordCount      = "METHOD_NAME_WORD_COUNT"
	NativeMethods            = "NATIVE_METHODS"
	Packages                 = "PACKAGES"
	PackageAttributes        = "PACKAGE_ATTRIBUTES"
	PackageClasses           = "PACKAGE_CLASSES"
	PackageInnerClasses      = "PACKAGE_INNER_CLASSES"
	PackageMethods           = "PACKAGE_METHODS"
	Parameters               = "PARAMETERS"
	PrivateAttributes        = "PRIVATE_ATTRIBUTES"
	PrivateInnerClasses      = "PRIVATE_INNER_CLASSES"
	PrivateMethods           = "PRIVATE_METHODS"
	ProtectedAttributes      = "PROTECTED_ATTRIBUTES"
	ProtectedInnerClasses    = "PROTECTED_INNER_CLASSES"
	ProtectedMethods         = "PROTECTED_METHODS"
	PublicAttributes         = "PUBLIC_ATTRIBUTES"
	PublicClasses            = "PUBLIC_CLASSES"
	PublicInnerClasses       = "PUBLIC_INNER_CLASSES"
	PublicMethods            = "PUBLIC_METHODS"
	Sloc                     = "SLOC"
	StaticAttributes         = "STATIC_ATTRIBUTES"
	StaticInnerClasses       = "STATIC_INNER_CLASSES"
	StaticMethods            = "STATIC_METHODS"
	Subclasses               = "SUBCLASSES"
	SuperClasses             = "SUPER_CLASSES"
	SynchronizedMethods      = "SYNCHRONIZED_METHODS"
	TransientAttributes      = "TRANSIENT_ATTRIBUTES"
	VolatileAttributes       = "VOLATILE_ATTRIBUTES"
)

// CountIdentifierWords counts the words of a camelCase or snake_case
// identifier: "getHTTPResponse" has 3 words, "MAX_VALUE" has 2.
func CountIdentifierWords(identifier string) int {
	runes := []rune(identifier)
	count := 0
	inWord := false

	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			inWord = false
			continue
		}

		boundary := !inWord
		if inWord && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			boundary = unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower)
		}
		if boundary {
			count++
		}
		inWord = true
	}
	return count
}

// CountPackageNameWords counts the words of every segment of a dotted name
func CountPackageNameWords(name string) int {
	count := 0
	for _, segment := range strings.Split(name, ".") {
		count += CountIdentifierWords(segment)
	}
	return count
}
