package clash

import "girder/pkg/model"

// Check codes, grouped by category. The code plus the affected element ids
// form the deterministic clash id.
const (
	// geometry
	CodeMemberTooShort    = "MEMBER_TOO_SHORT"
	CodeMemberPenetration = "MEMBER_PENETRATION"
	CodeMemberOverlap     = "MEMBER_OVERLAP"

	// plate-member alignment
	CodePlateOffsetXY      = "PLATE_OFFSET_XY"
	CodePlateOffsetZ       = "PLATE_OFFSET_Z"
	CodePlateAxisNotUnit   = "PLATE_AXIS_NOT_UNIT"
	CodePlateNormalDegener = "PLATE_NORMAL_DEGENERATE"

	// base plate
	CodeBasePlateWrongElev  = "BASE_PLATE_WRONG_ELEVATION"
	CodeBasePlateUndersized = "BASE_PLATE_UNDERSIZED"
	CodeBasePlateOversized  = "BASE_PLATE_OVERSIZED"
	CodeBasePlateNegCoords  = "BASE_PLATE_NEGATIVE_COORDS"
	CodeFoundationGapRange  = "FOUNDATION_GAP_OUT_OF_RANGE"

	// weld
	CodeWeldMissing      = "WELD_MISSING"
	CodeWeldInsufficient = "WELD_SIZE_INSUFFICIENT"
	CodeWeldPenetration  = "WELD_PENETRATION_LOW"
	CodeWeldNonStandard  = "WELD_SIZE_NONSTANDARD"

	// bolt spacing / edge
	CodeBoltEdgeDistance   = "BOLT_EDGE_DISTANCE"
	CodeBoltSpacingClose   = "BOLT_SPACING_CLOSE"
	CodeBoltSpacingWide    = "BOLT_SPACING_WIDE"
	CodeBoltDiaNonStandard = "BOLT_DIAMETER_NONSTANDARD"

	// member geometry
	CodeMemberSpanExcessive = "MEMBER_SPAN_EXCESSIVE"
	CodeMemberSlenderness   = "MEMBER_SLENDERNESS_EXCEEDED"
	CodeMemberUnbraced      = "MEMBER_UNBRACED"

	// connection alignment
	CodeConnectionEccentric = "CONNECTION_ECCENTRIC"
	CodeMomentUnresolved    = "MOMENT_TRANSFER_UNRESOLVED"

	// anchorage / foundation
	CodeAnchorEmbedShort     = "ANCHOR_EMBEDMENT_SHORT"
	CodeAnchorSpacing        = "ANCHOR_SPACING_CLOSE"
	CodeAnchorEdge           = "ANCHOR_EDGE_DISTANCE"
	CodeAnchorOutsideFooting = "ANCHOR_OUTSIDE_FOOTING"

	// plate properties
	CodePlateThin       = "PLATE_THICKNESS_INSUFFICIENT"
	CodePlateUnweldable = "PLATE_MATERIAL_UNWELDABLE"

	// bolt properties
	CodeBoltGradeUnknown     = "BOLT_GRADE_UNKNOWN"
	CodeBoltCapacityExceeded = "BOLT_CAPACITY_EXCEEDED"

	// structural logic
	CodeBoltOrphan         = "BOLT_ORPHAN"
	CodePlateFloating      = "PLATE_FLOATING"
	CodeMemberDisconnected = "MEMBER_DISCONNECTED"
)

// Codes returns every check code in category order. The slice is a copy;
// callers may reorder it.
func Codes() []string {
	return []string{
		CodeMemberTooShort, CodeMemberPenetration, CodeMemberOverlap,
		CodePlateOffsetXY, CodePlateOffsetZ, CodePlateAxisNotUnit, CodePlateNormalDegener,
		CodeBasePlateWrongElev, CodeBasePlateUndersized, CodeBasePlateOversized,
		CodeBasePlateNegCoords, CodeFoundationGapRange,
		CodeWeldMissing, CodeWeldInsufficient, CodeWeldPenetration, CodeWeldNonStandard,
		CodeBoltEdgeDistance, CodeBoltSpacingClose, CodeBoltSpacingWide, CodeBoltDiaNonStandard,
		CodeMemberSpanExcessive, CodeMemberSlenderness, CodeMemberUnbraced,
		CodeConnectionEccentric, CodeMomentUnresolved,
		CodeAnchorEmbedShort, CodeAnchorSpacing, CodeAnchorEdge, CodeAnchorOutsideFooting,
		CodePlateThin, CodePlateUnweldable,
		CodeBoltGradeUnknown, CodeBoltCapacityExceeded,
		CodeBoltOrphan, CodePlateFloating, CodeMemberDisconnected,
	}
}

// CategoryOf maps a check code to its category, for the corrector's strategy
// dispatch.
func CategoryOf(code string) model.Category {
	switch code {
	case CodeMemberTooShort, CodeMemberPenetration, CodeMemberOverlap:
		return model.CatGeometry
	case CodePlateOffsetXY, CodePlateOffsetZ, CodePlateAxisNotUnit, CodePlateNormalDegener:
		return model.CatPlateAlignment
	case CodeBasePlateWrongElev, CodeBasePlateUndersized, CodeBasePlateOversized,
		CodeBasePlateNegCoords, CodeFoundationGapRange:
		return model.CatBasePlate
	case CodeWeldMissing, CodeWeldInsufficient, CodeWeldPenetration, CodeWeldNonStandard:
		return model.CatWeld
	case CodeBoltEdgeDistance, CodeBoltSpacingClose, CodeBoltSpacingWide, CodeBoltDiaNonStandard:
		return model.CatBoltSpacing
	case CodeMemberSpanExcessive, CodeMemberSlenderness, CodeMemberUnbraced:
		return model.CatMemberGeometry
	case CodeConnectionEccentric, CodeMomentUnresolved:
		return model.CatConnectionAlignment
	case CodeAnchorEmbedShort, CodeAnchorSpacing, CodeAnchorEdge, CodeAnchorOutsideFooting:
		return model.CatAnchorage
	case CodePlateThin, CodePlateUnweldable:
		return model.CatPlateProperties
	case CodeBoltGradeUnknown, CodeBoltCapacityExceeded:
		return model.CatBoltProperties
	case CodeBoltOrphan, CodePlateFloating, CodeMemberDisconnected:
		return model.CatStructuralLogic
	}
	return ""
}
