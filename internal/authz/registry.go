// A1A T-Pro Authenticate & Authorize Library
// Copyright 2026 Watatek
// SPDX-License-Identifier: Apache-2.0

package authz

import "fmt"

// PermissionType tags a permission with the kind of operation it grants.
type PermissionType string

const (
	TypeView     PermissionType = "VIEW"
	TypeCreate   PermissionType = "CREATE"
	TypeUpdate   PermissionType = "UPDATE"
	TypeDelete   PermissionType = "DELETE"
	TypeImport   PermissionType = "IMPORT"
	TypeExport   PermissionType = "EXPORT"
	TypePrint    PermissionType = "PRINT"
	TypeScan     PermissionType = "SCAN"
	TypeTracking PermissionType = "TRACKING"
	TypeTransfer PermissionType = "TRANSFER"
)

// Role describes a system role.
type Role struct {
	Code        string
	Name        string
	Description string
}

// Permission describes a permission entry in the catalog.
type Permission struct {
	Code        string
	Description string
	Type        PermissionType
	Group       string
}

// UnknownCodeError reports a lookup of a code absent from its registry.
// Unknown codes are a distinct error, never silently treated as a miss.
type UnknownCodeError struct {
	Registry string
	Code     string
}

func (e *UnknownCodeError) Error() string {
	return fmt.Sprintf("unknown %s code: %s", e.Registry, e.Code)
}

// Role codes.
const (
	RoleSuperAdmin = "SUPER_ADMIN"

	RoleProdMgr = "PROD_MGR"

	RoleFabMgr     = "FAB_MGR"
	RoleFabLeader  = "FAB_LEADER"
	RoleFabStaff   = "FAB_STAFF"
	RoleFabOfficer = "FAB_OFFICER"

	RoleFabQCMgr    = "FAB_QC_MGR"
	RoleFabQCLeader = "FAB_QC_LEADER"
	RoleFabQCStaff  = "FAB_QC_STAFF"

	RoleAccMgr     = "ACC_MGR"
	RoleAccLeader  = "ACC_LEADER"
	RoleAccStaff   = "ACC_STAFF"
	RoleAccOfficer = "ACC_OFFICER"

	RoleAccQCMgr    = "ACC_QC_MGR"
	RoleAccQCLeader = "ACC_QC_LEADER"
	RoleAccQCStaff  = "ACC_QC_STAFF"

	RolePkgMgr     = "PKG_MGR"
	RolePkgLeader  = "PKG_LEADER"
	RolePkgStaff   = "PKG_STAFF"
	RolePkgOfficer = "PKG_OFFICER"

	RolePkgQCMgr    = "PKG_QC_MGR"
	RolePkgQCLeader = "PKG_QC_LEADER"
	RolePkgQCStaff  = "PKG_QC_STAFF"
)

// Permission codes for the fabric warehouse system.
const (
	PermFabPrdDbdInboundView = "FAB_PRD_DBD_INBOUND_VIEW"
	PermFabPrdDbdKanbanView  = "FAB_PRD_DBD_KANBAN_VIEW"

	PermFabPrdRcpPackingView   = "FAB_PRD_RCP_PACKING_VIEW"
	PermFabPrdRcpPackingImport = "FAB_PRD_RCP_PACKING_IMPORT"
	PermFabPrdRcpPackingPrint  = "FAB_PRD_RCP_PACKING_PRINT"

	PermFabPrdInvFabricView     = "FAB_PRD_INV_FABRIC_VIEW"
	PermFabPrdInvFabricTracking = "FAB_PRD_INV_FABRIC_TRACKING"
	PermFabPrdInvFabricExport   = "FAB_PRD_INV_FABRIC_EXPORT"
	PermFabPrdInvFabricPrint    = "FAB_PRD_INV_FABRIC_PRINT"
	PermFabPrdInvFabricTransfer = "FAB_PRD_INV_FABRIC_TRANSFER"
	PermFabPrdInvFabricDelete   = "FAB_PRD_INV_FABRIC_DELETE"

	PermFabPrdInvRelaxView = "FAB_PRD_INV_RELAX_VIEW"
	PermFabPrdInvRelaxScan = "FAB_PRD_INV_RELAX_SCAN"

	PermFabPrdDlvIssueCreate  = "FAB_PRD_DLV_ISSUE_CREATE"
	PermFabPrdDlvReportView   = "FAB_PRD_DLV_REPORT_VIEW"
	PermFabPrdDlvReportExport = "FAB_PRD_DLV_REPORT_EXPORT"

	PermFabPrdScnPutScan   = "FAB_PRD_SCN_PUT_SCAN"
	PermFabPrdScnMoveScan  = "FAB_PRD_SCN_MOVE_SCAN"
	PermFabPrdScnInforScan = "FAB_PRD_SCN_INFOR_SCAN"
	PermFabPrdScnIssueScan = "FAB_PRD_SCN_ISSUE_SCAN"

	PermFabQltRelaxStandardView   = "FAB_QLT_RELAXSTANDARD_VIEW"
	PermFabQltRelaxStandardUpdate = "FAB_QLT_RELAXSTANDARD_UPDATE"
	PermFabQltRelaxStandardCreate = "FAB_QLT_RELAXSTANDARD_CREATE"
	PermFabQltRelaxStandardDelete = "FAB_QLT_RELAXSTANDARD_DELETE"

	PermFabQltPlanView   = "FAB_QLT_PLAN_VIEW"
	PermFabQltPlanUpdate = "FAB_QLT_PLAN_UPDATE"
	PermFabQltPlanCreate = "FAB_QLT_PLAN_CREATE"
	PermFabQltPlanDelete = "FAB_QLT_PLAN_DELETE"

	PermFabTmpView = "FAB_TMP_VIEW"
)

// Permission group labels.
const (
	groupBoardPlanning = "Fabric Warehouse System (Board & Planning)"
	groupPackingMng    = "Fabric Warehouse System (Packing List Management)"
	groupFabricInv     = "Fabric Warehouse System (Fabric Inventory)"
	groupRelaxMng      = "Fabric Warehouse System (Fabric Relaxation Management)"
	groupIssueForm     = "Fabric Warehouse System (Issue Fabric Form)"
	groupIssueReport   = "Fabric Warehouse System (Daily Issue Fabric report)"
	groupScanQR        = "Fabric Warehouse System (Scan QR Code)"
	groupRelaxStd      = "Fabric Warehouse System (Relax Time Standard Management)"
	groupActionPlan    = "Fabric Warehouse System (Action Plan Management)"
	groupTempInv       = "Fabric Warehouse System (Fabric Temp Warehouse Inventory)"
)

// roleCatalog is the closed set of system roles.
var roleCatalog = []Role{
	{RoleSuperAdmin, "Super Admin", "System administrator with full access to all features"},

	{RoleProdMgr, "Production Manager", "Manages all production operations and warehouse managers"},

	{RoleFabMgr, "Fabric Manager", "Manages fabric warehouse operations"},
	{RoleFabLeader, "Fabric Leader", "Leads fabric warehouse team"},
	{RoleFabStaff, "Fabric Staff", "Fabric warehouse staff member"},
	{RoleFabOfficer, "Fabric Officer", "Fabric warehouse officer"},

	{RoleFabQCMgr, "Quality Manager", "Manages quality control operations in Fabric warehouse"},
	{RoleFabQCLeader, "QC Leader", "Leads quality control team in Fabric warehouse"},
	{RoleFabQCStaff, "QC Staff", "Quality control staff member in Fabric warehouse"},

	{RoleAccMgr, "Accessory Manager", "Manages accessory warehouse operations"},
	{RoleAccLeader, "Accessory Leader", "Leads accessory warehouse team"},
	{RoleAccStaff, "Accessory Staff", "Accessory warehouse staff member"},
	{RoleAccOfficer, "Accessory Officer", "Accessory warehouse officer"},

	{RoleAccQCMgr, "Quality Manager", "Manages quality control operations in Accessory warehouse"},
	{RoleAccQCLeader, "QC Leader", "Leads quality control team in Accessory warehouse"},
	{RoleAccQCStaff, "QC Staff", "Quality control staff member in Accessory warehouse"},

	{RolePkgMgr, "Packaging Manager", "Manages packaging warehouse operations"},
	{RolePkgLeader, "Packaging Leader", "Leads packaging warehouse team"},
	{RolePkgStaff, "Packaging Staff", "Packaging warehouse staff member"},
	{RolePkgOfficer, "Packaging Officer", "Packaging warehouse officer"},

	{RolePkgQCMgr, "Quality Manager", "Manages quality control operations in Packaging warehouse"},
	{RolePkgQCLeader, "QC Leader", "Leads quality control team in Packaging warehouse"},
	{RolePkgQCStaff, "QC Staff", "Quality control staff member in Packaging warehouse"},
}

// permissionCatalog is the closed set of fabric warehouse permissions.
var permissionCatalog = []Permission{
	{PermFabPrdDbdInboundView, "Allow user to view Fabric Inbound Dashboard", TypeView, groupBoardPlanning},
	{PermFabPrdDbdKanbanView, "Allow user to view Fabric Kanban Board", TypeView, groupBoardPlanning},

	{PermFabPrdRcpPackingView, "Allow user to view Fabric Packing List Management", TypeView, groupPackingMng},
	{PermFabPrdRcpPackingImport, "Allow user to import item in Fabric Packing List Management", TypeImport, groupPackingMng},
	{PermFabPrdRcpPackingPrint, "Allow user to print item QR Code in Fabric Packing List Management", TypePrint, groupPackingMng},

	{PermFabPrdInvFabricView, "Allow user to view Fabric Inventory", TypeView, groupFabricInv},
	{PermFabPrdInvFabricTracking, "Allow user to view history transfer Fabric Inventory", TypeTracking, groupFabricInv},
	{PermFabPrdInvFabricExport, "Allow user to export an excel file in Fabric Inventory", TypeExport, groupFabricInv},
	{PermFabPrdInvFabricPrint, "Allow user to print item QR Code in Fabric Inventory", TypePrint, groupFabricInv},
	{PermFabPrdInvFabricTransfer, "Allow user to transfer item into another Location in Fabric Inventory", TypeTransfer, groupFabricInv},
	{PermFabPrdInvFabricDelete, "Allow user to delete item in Fabric Inventory", TypeDelete, groupFabricInv},

	{PermFabPrdInvRelaxView, "Allow user to view the process in Fabric Relaxation Management", TypeView, groupRelaxMng},
	{PermFabPrdInvRelaxScan, "Allow user to scan in Fabric Relaxation Management", TypeScan, groupRelaxMng},

	{PermFabPrdDlvIssueCreate, "Allow user to issue fabric in Issue Fabric Form", TypeCreate, groupIssueForm},
	{PermFabPrdDlvReportView, "Allow user to view Daily Issue Fabric Report", TypeView, groupIssueReport},
	{PermFabPrdDlvReportExport, "Allow user to export an excel file item Daily Issue Fabric Report", TypeExport, groupIssueReport},

	{PermFabPrdScnPutScan, "Allow user to scan to put fabric item into Location", TypeScan, groupScanQR},
	{PermFabPrdScnMoveScan, "Allow user to scan to move fabric item into another Location", TypeScan, groupScanQR},
	{PermFabPrdScnInforScan, "Allow user to scan to view information fabric item", TypeScan, groupScanQR},
	{PermFabPrdScnIssueScan, "Allow user to scan to issue fabric item", TypeScan, groupScanQR},

	{PermFabQltRelaxStandardView, "Allow user to view Relax Time Standard Management", TypeView, groupRelaxStd},
	{PermFabQltRelaxStandardUpdate, "Allow user to update Relax Time Standard Management", TypeUpdate, groupRelaxStd},
	{PermFabQltRelaxStandardCreate, "Allow user to create Relax Time Standard Management", TypeCreate, groupRelaxStd},
	{PermFabQltRelaxStandardDelete, "Allow user to delete Relax Time Standard Management", TypeDelete, groupRelaxStd},

	{PermFabQltPlanView, "Allow user to view Action Plan Management", TypeView, groupActionPlan},
	{PermFabQltPlanUpdate, "Allow user to update Action Plan Management", TypeUpdate, groupActionPlan},
	{PermFabQltPlanCreate, "Allow user to create Action Plan Management", TypeCreate, groupActionPlan},
	{PermFabQltPlanDelete, "Allow user to delete Action Plan Management", TypeDelete, groupActionPlan},

	{PermFabTmpView, "Allow user to view Fabric Temp Warehouse Inventory", TypeView, groupTempInv},
}

// Lookup indexes, built once at init and read-only thereafter.
var (
	roleIndex       map[string]Role
	permissionIndex map[string]Permission
)

func init() {
	roleIndex = make(map[string]Role, len(roleCatalog))
	for _, r := range roleCatalog {
		if _, dup := roleIndex[r.Code]; dup {
			panic("duplicate role code: " + r.Code)
		}
		roleIndex[r.Code] = r
	}

	permissionIndex = make(map[string]Permission, len(permissionCatalog))
	for _, p := range permissionCatalog {
		if _, dup := permissionIndex[p.Code]; dup {
			panic("duplicate permission code: " + p.Code)
		}
		permissionIndex[p.Code] = p
	}
}

// RoleFromCode looks up a role by code. Unknown codes yield an
// *UnknownCodeError.
func RoleFromCode(code string) (Role, error) {
	r, ok := roleIndex[code]
	if !ok {
		return Role{}, &UnknownCodeError{Registry: "system role", Code: code}
	}
	return r, nil
}

// PermissionFromCode looks up a permission by code. Unknown codes yield an
// *UnknownCodeError.
func PermissionFromCode(code string) (Permission, error) {
	p, ok := permissionIndex[code]
	if !ok {
		return Permission{}, &UnknownCodeError{Registry: "permission", Code: code}
	}
	return p, nil
}

// IsValidRoleCode reports whether code is in the role catalog.
func IsValidRoleCode(code string) bool {
	_, ok := roleIndex[code]
	return ok
}

// IsValidPermissionCode reports whether code is in the permission catalog.
func IsValidPermissionCode(code string) bool {
	_, ok := permissionIndex[code]
	return ok
}

// Roles returns a copy of the role catalog.
func Roles() []Role {
	out := make([]Role, len(roleCatalog))
	copy(out, roleCatalog)
	return out
}

// Permissions returns a copy of the permission catalog.
func Permissions() []Permission {
	out := make([]Permission, len(permissionCatalog))
	copy(out, permissionCatalog)
	return out
}
