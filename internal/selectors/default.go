package selectors

// DefaultVersion tags the built-in table.
const DefaultVersion = "2024.10"

// Default returns the built-in table. Within each set the first expression
// targets the current profile layout and later ones older revisions.
// These WILL drift as the site changes its markup.
func Default() Table {
	return NewTable(DefaultVersion, map[Field]Set{
		Name: {
			`h1.text-heading-xlarge`,
			`main section h1.inline.t-24`,
			`.pv-top-card--list li.inline.t-24`,
			`.top-card-layout__title`,
			`h1`,
		},
		Headline: {
			`div.text-body-medium.break-words`,
			`.pv-top-card--list + h2`,
			`h2.mt1.t-18`,
			`.top-card-layout__headline`,
		},
		Location: {
			`.pv-text-details__left-panel span.text-body-small.inline.t-black--light.break-words`,
			`.pv-top-card--list-bullet li.t-16`,
			`.top-card__subline-item`,
			`.top-card-layout__first-subline .not-first-middot span`,
		},
		About: {
			`#about ~ .display-flex .inline-show-more-text span[aria-hidden="true"]`,
			`section.pv-about-section .pv-about__summary-text`,
			`.core-section-container.summary .core-section-container__content`,
			`section[data-section="summary"] p`,
		},
		Avatar: {
			`img.pv-top-card-profile-picture__image--show`,
			`img.pv-top-card-profile-picture__image`,
			`.pv-top-card__photo img`,
			`img.top-card__profile-image`,
			`.top-card-layout__entity-image-container img`,
		},
		Canonical: {
			`link[rel="canonical"]`,
		},

		ExperienceSection: {
			`section:has(#experience)`,
			`section#experience-section`,
			`section.experience`,
			`section[data-section="experience"]`,
		},
		ExperienceItem: {
			`li.artdeco-list__item`,
			`li.pvs-list__paged-list-item`,
			`li.pv-entity__position-group-pager`,
			`li.experience-item`,
		},
		ExperienceTitle: {
			`.t-bold span[aria-hidden="true"]`,
			`.mr1.t-bold span`,
			`h3.t-16`,
			`.experience-item__title`,
			`h3`,
		},
		ExperienceCompany: {
			`span.t-14.t-normal:not(.t-black--light) span[aria-hidden="true"]`,
			`p.pv-entity__secondary-title`,
			`.experience-item__subtitle`,
			`h4`,
		},
		ExperienceCaption: {
			`.pvs-entity__caption-wrapper[aria-hidden="true"]`,
			`span.t-14.t-normal.t-black--light span[aria-hidden="true"]`,
			`.pv-entity__date-range span:nth-child(2)`,
			`.date-range`,
		},
		ExperienceDescription: {
			`.pvs-list__outer-container .inline-show-more-text span[aria-hidden="true"]`,
			`.pv-entity__description`,
			`.show-more-less-text__text--less`,
		},
		ExperienceLocation: {
			`span.t-14.t-normal.t-black--light + span.t-14.t-normal.t-black--light span[aria-hidden="true"]`,
			`.pv-entity__location span:nth-child(2)`,
			`.experience-item__location`,
		},

		EducationSection: {
			`section:has(#education)`,
			`section#education-section`,
			`section.education`,
			`section[data-section="educationsDetails"]`,
		},
		EducationItem: {
			`li.artdeco-list__item`,
			`li.pvs-list__paged-list-item`,
			`li.pv-education-entity`,
			`li.education__list-item`,
		},
		EducationSchool: {
			`.t-bold span[aria-hidden="true"]`,
			`h3.pv-entity__school-name`,
			`h3`,
		},
		EducationDegree: {
			`span.t-14.t-normal:not(.t-black--light) span[aria-hidden="true"]`,
			`.pv-entity__degree-name .pv-entity__comma-item`,
			`h4`,
		},
		EducationCaption: {
			`.pvs-entity__caption-wrapper[aria-hidden="true"]`,
			`span.t-14.t-normal.t-black--light span[aria-hidden="true"]`,
			`.pv-entity__dates time`,
			`.date-range`,
		},

		SkillsSection: {
			`section:has(#skills)`,
			`section.pv-skill-categories-section`,
			`section[data-section="skills"]`,
		},
		SkillsItem: {
			`.t-bold span[aria-hidden="true"]`,
			`.pv-skill-category-entity__name-text`,
			`li.skill`,
		},
	})
}
