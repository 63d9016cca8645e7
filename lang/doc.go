// Package lang implements the atx template language: literal text mixed with
// '@' expressions that are evaluated against a variable [Context] and a
// [Registry] of named functions.
//
// # Templates
//
// A template is scanned into [Text] and [Expression] segments:
//
//	Hello @contact.name, you have @count(items) items.
//	Total: @(price * quantity) (@@ escapes a literal '@')
//
// An '@' followed by a parenthesized group is a block; an '@' followed by a
// number, quoted string, name, call or property/index chain is a shorthand.
// Any other '@' is literal text, so scanning never fails.
//
// # Expressions
//
// Operators, from lowest to highest precedence:
//
//	=  !=  <>  <  <=  >  >=     comparison (Boolean result)
//	&                           text concatenation
//	+  -                        addition, subtraction
//	*  /                        multiplication, division
//	^                           exponentiation
//
// Every tier is left-associative: 8/4/2 is (8/4)/2. Terms are floats,
// integers, quoted strings ("say \"hi\""), groups, names, calls such as
// f(1, g(2)) and chains such as contact.groups[0].name. A chain suffix
// .name(args) calls name with the chain so far as its first argument.
//
// Names are case-insensitive. Unbound names evaluate to null unless
// [WithStrictVariables] is set.
//
// # Functions
//
// Functions are registered with one of two calling conventions. [Direct]
// selects a handler by argument count:
//
//	lang.Direct("round",
//		lang.Arity1(round),
//		lang.Arity2(roundTo),
//	)
//
// [Vargs] passes every argument to one handler:
//
//	lang.Vargs("sum", sum)
//
// A [Registry] is immutable once built and may be shared between concurrent
// evaluations.
package lang
