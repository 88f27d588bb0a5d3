// Package siri defines the SIRI (Service Interface for Real-time Information)
// VehicleMonitoring types used to export the live vehicle snapshot.
//
// SIRI is a European standard (CEN/TS 15531) for real-time public transport
// information. Only the VehicleMonitoringDelivery (VM) module is modelled here,
// reduced to what a position feed can populate. XML output is written by
// package formatter; the structs carry JSON tags only.
package siri
