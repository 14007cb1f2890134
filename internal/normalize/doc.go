// Package normalize turns an ossec_config / agent_config XML tree into a canonical,
// order-independent document.
//
// Each option element is read into a Value (scalar, mapping or sequence), inserted into
// its section mapping, and every completed section is merged into the document using
// the policy declared for that section name:
//
//   - Duplicate: every occurrence is kept, in source order
//   - Merge: occurrences are folded together; list options accumulate
//   - Last: the last occurrence wins and a Warning is reported
//
// Sections missing from the table behave as Duplicate with no list options.
package normalize
